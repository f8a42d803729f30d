// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return newSilentSource(44100, 2, 100), nil
}

type failingDecoder struct{}

func (failingDecoder) Decode(r io.Reader) (Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}
	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}
}

func TestRegistry_KeyNormalisation(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(".WAV", &mockDecoder{})

	for _, key := range []string{"wav", ".wav", "WAV"} {
		if _, ok := registry.Get(key); !ok {
			t.Errorf("Registry.Get(%q) ok = false, want true", key)
		}
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("ogg", &mockDecoder{})
	registry.Register("mp3", &mockDecoder{})
	registry.Register("wav", &mockDecoder{})

	want := []string{"mp3", "ogg", "wav"}
	if got := registry.Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_DecodeFile(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{})
	registry.Register("bad", failingDecoder{})

	src, err := registry.DecodeFile("/tmp/take1.wav", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if src.Format().Channels != 2 {
		t.Errorf("Channels = %d, want 2", src.Format().Channels)
	}

	if _, err := registry.DecodeFile("take1.flac", bytes.NewReader(nil)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DecodeFile(flac) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := registry.DecodeFile("x.bad", bytes.NewReader(nil)); err == nil {
		t.Error("DecodeFile(bad) error = nil, want decoder error")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register(string(rune('a'+i)), &mockDecoder{})
		}()
		go func() {
			defer wg.Done()
			registry.Get(string(rune('a' + i)))
		}()
	}
	wg.Wait()

	if got := len(registry.Formats()); got != 10 {
		t.Errorf("len(Formats()) = %d, want 10", got)
	}
}
