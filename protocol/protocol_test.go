package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm-cable/msa3d/shapes"
)

func TestHandleShapeCommands(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		wantShape string
	}{
		{"shape circle", `{"cmd":"shape","shape":"circle"}`, "circle"},
		{"wake square", `{"cmd":"wake","shape":"square","trigger":"msa3d"}`, "square"},
		{"missing shape defaults", `{"cmd":"wake"}`, "circle"},
		{"empty shape defaults", `{"cmd":"shape","shape":""}`, "circle"},
		{"non-string shape defaults", `{"cmd":"shape","shape":5}`, "circle"},
		{"unknown shape kept", `{"cmd":"shape","shape":"hexagon"}`, "hexagon"},
		{"surrounding whitespace", "  {\"cmd\":\"shape\",\"shape\":\"rectangle\"}\n", "rectangle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Handle([]byte(tt.frame), 200)
			if resp.Action != ActionShape {
				t.Fatalf("action = %q, want %q", resp.Action, ActionShape)
			}
			if resp.Shape != tt.wantShape {
				t.Errorf("shape = %q, want %q", resp.Shape, tt.wantShape)
			}
			if diff := cmp.Diff(shapes.Generate(tt.wantShape, 200), resp.Points); diff != "" {
				t.Errorf("points mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandlerDefaultShape(t *testing.T) {
	h := Handler{Count: 12, DefaultShape: shapes.Square}
	resp := h.Handle([]byte(`{"cmd":"wake"}`))
	if resp.Shape != shapes.Square || len(resp.Points) != 12 {
		t.Errorf("got shape %q with %d points, want square with 12", resp.Shape, len(resp.Points))
	}
}

func TestHandleEcho(t *testing.T) {
	frames := []string{
		`{"cmd":"ping","n":1}`,
		`{"cmd":7}`,
		`{"hello":"world"}`,
		`[1,2,3]`,
		`42`,
		`"text"`,
	}

	for _, frame := range frames {
		resp := Handle([]byte(frame), 200)
		if resp.Action != ActionEcho {
			t.Errorf("Handle(%s) action = %q, want echo", frame, resp.Action)
			continue
		}
		if string(resp.Received) != frame {
			t.Errorf("Handle(%s) received = %s, want the input frame", frame, resp.Received)
		}
	}
}

func TestHandleInvalidPayload(t *testing.T) {
	want := Response{Action: ActionError, Msg: MsgInvalidPayload}
	for _, frame := range []string{"", "not json", `{"cmd":`, "null"} {
		if diff := cmp.Diff(want, Handle([]byte(frame), 200)); diff != "" {
			t.Errorf("Handle(%q) mismatch (-want +got):\n%s", frame, diff)
		}
	}
}

func TestResponseWireFormat(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			"error",
			ErrorResponse(MsgInvalidPayload),
			`{"action":"error","msg":"invalid payload"}`,
		},
		{
			"echo",
			Handle([]byte(`{"cmd":"x"}`), 200),
			`{"action":"echo","received":{"cmd":"x"}}`,
		},
		{
			"shape",
			Response{Action: ActionShape, Shape: "grid", Points: []shapes.Point{{X: 0, Y: 0.05}}},
			`{"action":"shape","shape":"grid","points":[{"x":0,"y":0.05}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.resp)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Encode = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestRequestWireFormat(t *testing.T) {
	data, err := Encode(NewWake("square", "msa3d"))
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"cmd": "wake", "shape": "square", "trigger": "msa3d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wake request mismatch (-want +got):\n%s", diff)
	}

	data, _ = Encode(NewShape("circle"))
	if string(data) != `{"cmd":"shape","shape":"circle"}` {
		t.Errorf("shape request = %s", data)
	}
}

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"action":"shape","shape":"circle","points":[{"x":0.85,"y":0.5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Response{Action: ActionShape, Shape: "circle", Points: []shapes.Point{{X: 0.85, Y: 0.5}}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"nope", `{"shape":"circle"}`} {
		if _, err := DecodeResponse([]byte(bad)); err == nil {
			t.Errorf("DecodeResponse(%q) expected error", bad)
		}
	}
}
