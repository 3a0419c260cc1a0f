package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEvent_DecodesAndParses(t *testing.T) {
	raw := `{
		"id": 18029572,
		"action": "linode_reboot",
		"status": "finished",
		"percent_complete": 100,
		"created": "2018-12-03T22:34:09",
		"seen": true,
		"entity": {"id": 11241778, "label": "node-server", "type": "linode", "url": "/v4/linode/instances/11241778"},
		"secondary_entity": null
	}`
	var ev Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if ev.Status != StatusFinished || ev.Entity == nil || ev.Entity.ID != 11241778 {
		t.Fatalf("event = %#v, want finished linode event", ev)
	}
	if pct, ok := ev.Progress(); !ok || pct != 100 {
		t.Fatalf("Progress = %d,%v want 100,true", pct, ok)
	}
	want := time.Date(2018, 12, 3, 22, 34, 9, 0, time.UTC)
	if got := ev.ParsedCreated(); !got.Equal(want) {
		t.Fatalf("ParsedCreated = %v, want %v", got, want)
	}
	if ev.EntityKey() != "linode:11241778" {
		t.Fatalf("EntityKey = %q, want linode:11241778", ev.EntityKey())
	}
}

func TestEvent_MissingOptionalFields(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"id":1,"action":"account_update","status":"notification","entity":null,"percent_complete":null}`), &ev); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := ev.Progress(); ok {
		t.Fatalf("Progress reported for null percent_complete")
	}
	if ev.EntityKey() != "" {
		t.Fatalf("EntityKey = %q, want empty", ev.EntityKey())
	}
	if !ev.ParsedCreated().IsZero() {
		t.Fatalf("ParsedCreated = %v, want zero", ev.ParsedCreated())
	}
}

func TestFormatTime_RoundTrips(t *testing.T) {
	in := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if got := parseTime(FormatTime(in)); !got.Equal(in) {
		t.Fatalf("parseTime(FormatTime) = %v, want %v", got, in)
	}
}

func TestBucket_EntityID(t *testing.T) {
	b := Bucket{Cluster: "us-east-1", Label: "assets"}
	if b.EntityID() != "us-east-1/assets" {
		t.Fatalf("EntityID = %q, want us-east-1/assets", b.EntityID())
	}
}
