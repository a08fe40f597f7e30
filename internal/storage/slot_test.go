package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type record struct {
	ID   string     `json:"id"`
	At   time.Time  `json:"at"`
	Done *time.Time `json:"done,omitempty"`
}

const recordSchema = `{
	"type": "array",
	"items": {"type": "object", "required": ["id", "at"], "properties": {"id": {"type": "string"}}}
}`

// failingKV reads like Memory but refuses every write.
type failingKV struct {
	*Memory
}

var errQuota = errors.New("quota exceeded")

func (failingKV) Set(context.Context, string, []byte) error {
	return errQuota
}

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	slot := NewSlot(kv, "records", []record{}, WithSchema(MustCompileSchema("test://records.json", recordSchema)))

	created := time.Date(2024, 5, 1, 9, 30, 0, 123000000, time.UTC)
	done := created.Add(2 * time.Hour)
	want := []record{
		{ID: "a", At: created},
		{ID: "b", At: created, Done: &done},
	}
	if err := slot.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := slot.Load(ctx)
	if len(got) != len(want) {
		t.Fatalf("Load returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || !got[i].At.Equal(want[i].At) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if got[0].Done != nil {
		t.Errorf("record a Done = %v, want nil", got[0].Done)
	}
	if got[1].Done == nil || !got[1].Done.Equal(done) {
		t.Errorf("record b Done = %v, want %v", got[1].Done, done)
	}
}

func TestSlotLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	def := []record{{ID: "default"}}

	tests := []struct {
		name    string
		payload string
		wantLog bool
	}{
		{name: "missing key"},
		{name: "corrupt json", payload: "{not json", wantLog: true},
		{name: "wrong shape", payload: `{"id": "x"}`, wantLog: true},
		{name: "missing required field", payload: `[{"id": "x"}]`, wantLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemory()
			if tt.payload != "" {
				if err := kv.Set(ctx, "records", []byte(tt.payload)); err != nil {
					t.Fatalf("seed failed: %v", err)
				}
			}
			var buf bytes.Buffer
			slot := NewSlot(kv, "records", def,
				WithSchema(MustCompileSchema("test://records.json", recordSchema)),
				WithLogger(zerolog.New(&buf)),
			)

			got := slot.Load(ctx)
			if len(got) != 1 || got[0].ID != "default" {
				t.Errorf("Load = %+v, want default", got)
			}
			if logged := buf.Len() > 0; logged != tt.wantLog {
				t.Errorf("logged = %v, want %v (%s)", logged, tt.wantLog, buf.String())
			}
		})
	}
}

func TestSlotLoadWithoutSchemaRejectsCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	_ = kv.Set(ctx, "theme", []byte(`"dark`))

	slot := NewSlot(kv, "theme", "light")
	if got := slot.Load(ctx); got != "light" {
		t.Errorf("Load = %q, want %q", got, "light")
	}
}

func TestSlotSaveFailureIsReported(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	slot := NewSlot(failingKV{NewMemory()}, "records", []record{}, WithLogger(zerolog.New(&buf)))

	err := slot.Save(ctx, []record{{ID: "a"}})
	if !errors.Is(err, errQuota) {
		t.Fatalf("Save error = %v, want %v", err, errQuota)
	}
	if !bytes.Contains(buf.Bytes(), []byte("write failed")) {
		t.Errorf("expected write failure to be logged, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"key":"`+slot.Key()+`"`)) {
		t.Errorf("expected key field in log, got %q", buf.String())
	}
}
