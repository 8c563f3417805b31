package torrent

import (
	"context"
	"errors"
	"testing"

	qbt "github.com/autobrr/go-qbittorrent"

	"postflow/internal/config"
	"postflow/internal/services"
)

type fakeAPI struct {
	logins    int
	loginErr  error
	torrents  map[string]qbt.Torrent
	moved     map[string]string
	locateErr error
}

func (f *fakeAPI) LoginCtx(context.Context) error {
	f.logins++
	return f.loginErr
}

func (f *fakeAPI) GetTorrentsCtx(_ context.Context, opts qbt.TorrentFilterOptions) ([]qbt.Torrent, error) {
	var out []qbt.Torrent
	for _, hash := range opts.Hashes {
		if torrent, ok := f.torrents[hash]; ok {
			out = append(out, torrent)
		}
	}
	return out, nil
}

func (f *fakeAPI) SetLocationCtx(_ context.Context, hashes []string, location string) error {
	if f.locateErr != nil {
		return f.locateErr
	}
	if f.moved == nil {
		f.moved = map[string]string{}
	}
	for _, hash := range hashes {
		f.moved[hash] = location
	}
	return nil
}

func TestRelocateMovesKnownTorrent(t *testing.T) {
	api := &fakeAPI{torrents: map[string]qbt.Torrent{
		"abc": {Hash: "abc", Name: "Show.S01E01", SavePath: "/downloads"},
	}}
	client := NewWithAPI(api, "/seeds", nil)

	moved, err := client.Relocate(context.Background(), "ABC")
	if err != nil || !moved {
		t.Fatalf("Relocate = %v, %v", moved, err)
	}
	if api.moved["abc"] != "/seeds" {
		t.Fatalf("set location calls = %v", api.moved)
	}

	moved, err = client.Relocate(context.Background(), "missing")
	if err != nil || moved {
		t.Fatalf("unknown torrent: %v, %v", moved, err)
	}
	if api.logins != 1 {
		t.Fatalf("expected a single login, got %d", api.logins)
	}
}

func TestRelocateSkipsTorrentAlreadySeeding(t *testing.T) {
	api := &fakeAPI{torrents: map[string]qbt.Torrent{"abc": {Hash: "abc", SavePath: "/seeds/"}}}
	client := NewWithAPI(api, "/seeds", nil)

	moved, err := client.Relocate(context.Background(), "abc")
	if err != nil || !moved {
		t.Fatalf("Relocate = %v, %v", moved, err)
	}
	if len(api.moved) != 0 {
		t.Fatalf("no move expected, got %v", api.moved)
	}
}

func TestRelocateErrors(t *testing.T) {
	tests := []struct {
		name   string
		api    *fakeAPI
		seeds  string
		marker error
	}{
		{name: "no seed location", api: &fakeAPI{}, marker: services.ErrUnsupported},
		{name: "login", api: &fakeAPI{loginErr: errors.New("forbidden")}, seeds: "/seeds", marker: services.ErrExternalTool},
		{name: "endpoint missing", api: &fakeAPI{
			torrents:  map[string]qbt.Torrent{"abc": {Hash: "abc"}},
			locateErr: errors.New("unexpected status: 404"),
		}, seeds: "/seeds", marker: services.ErrUnsupported},
		{name: "method not allowed", api: &fakeAPI{
			torrents:  map[string]qbt.Torrent{"abc": {Hash: "abc"}},
			locateErr: errors.New("unexpected status: 405"),
		}, seeds: "/seeds", marker: services.ErrUnsupported},
		{name: "torrent not found", api: &fakeAPI{
			torrents:  map[string]qbt.Torrent{"abc": {Hash: "abc"}},
			locateErr: errors.New("torrent not found"),
		}, seeds: "/seeds", marker: services.ErrExternalTool},
		{name: "status digits inside hash", api: &fakeAPI{
			torrents:  map[string]qbt.Torrent{"abc": {Hash: "abc"}},
			locateErr: errors.New("set location failed for a404f"),
		}, seeds: "/seeds", marker: services.ErrExternalTool},
		{name: "request failed", api: &fakeAPI{
			torrents:  map[string]qbt.Torrent{"abc": {Hash: "abc"}},
			locateErr: errors.New("connection reset"),
		}, seeds: "/seeds", marker: services.ErrExternalTool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithAPI(tt.api, tt.seeds, nil).Relocate(context.Background(), "abc")
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestNewRejectsUnknownClient(t *testing.T) {
	cfg := config.Default()
	cfg.Torrent.Method = "transmission"
	if _, err := New(&cfg, nil); !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	cfg.Torrent.Method = "qbittorrent"
	if _, err := New(&cfg, nil); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestPingReusesSession(t *testing.T) {
	api := &fakeAPI{}
	client := NewWithAPI(api, "/seeds", nil)
	for range 2 {
		if err := client.Ping(context.Background()); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	}
	if api.logins != 1 {
		t.Fatalf("expected a single login, got %d", api.logins)
	}

	failing := NewWithAPI(&fakeAPI{loginErr: errors.New("forbidden")}, "/seeds", nil)
	if err := failing.Ping(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
