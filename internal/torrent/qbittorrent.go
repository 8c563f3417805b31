package torrent

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	qbt "github.com/autobrr/go-qbittorrent"

	"postflow/internal/config"
	"postflow/internal/logging"
	"postflow/internal/services"
)

// API is the subset of the qBittorrent Web API used for relocation.
type API interface {
	LoginCtx(ctx context.Context) error
	GetTorrentsCtx(ctx context.Context, opts qbt.TorrentFilterOptions) ([]qbt.Torrent, error)
	SetLocationCtx(ctx context.Context, hashes []string, location string) error
}

// QBittorrent relocates torrents through the qBittorrent Web API.
type QBittorrent struct {
	api      API
	location string
	logger   *slog.Logger

	mu       sync.Mutex
	loggedIn bool
}

// New builds a client from the torrent section of cfg.
func New(cfg *config.Config, logger *slog.Logger) (*QBittorrent, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "torrent", "init", "configuration unavailable", nil)
	}
	if cfg.Torrent.Method != "qbittorrent" {
		return nil, services.Wrap(services.ErrUnsupported, "torrent", "init", fmt.Sprintf("client %q cannot relocate torrents", cfg.Torrent.Method), nil)
	}
	api := qbt.NewClient(qbt.Config{
		Host:     cfg.Torrent.Host,
		Username: cfg.Torrent.Username,
		Password: cfg.Torrent.Password,
	})
	return NewWithAPI(api, cfg.Torrent.SeedLocation, logger), nil
}

// NewWithAPI wires an explicit API implementation, primarily for tests.
func NewWithAPI(api API, seedLocation string, logger *slog.Logger) *QBittorrent {
	return &QBittorrent{
		api:      api,
		location: strings.TrimSpace(seedLocation),
		logger:   logging.NewComponentLogger(logger, "torrent"),
	}
}

// Relocate moves the torrent identified by infoHash to the seed location. It
// reports false when the client does not know the torrent.
func (q *QBittorrent) Relocate(ctx context.Context, infoHash string) (bool, error) {
	if q.location == "" {
		return false, services.Wrap(services.ErrUnsupported, "torrent", "relocate", "no seed location configured", nil)
	}
	infoHash = strings.ToLower(strings.TrimSpace(infoHash))
	if infoHash == "" {
		return false, services.Wrap(services.ErrValidation, "torrent", "relocate", "info hash is required", nil)
	}
	if err := q.login(ctx); err != nil {
		return false, err
	}
	logger := logging.WithContext(ctx, q.logger)

	torrents, err := q.api.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{Hashes: []string{infoHash}})
	if err != nil {
		return false, classify("list torrents", err)
	}
	if len(torrents) == 0 {
		logger.Debug("torrent not found in client", logging.String("info_hash", infoHash))
		return false, nil
	}
	if samePath(torrents[0].SavePath, q.location) {
		logger.Debug("torrent already in seed location", logging.String("info_hash", infoHash))
		return true, nil
	}

	if err := q.api.SetLocationCtx(ctx, []string{infoHash}, q.location); err != nil {
		return false, classify("set location", err)
	}
	logger.Info("torrent moved to seed location",
		logging.String("info_hash", infoHash),
		logging.String("name", torrents[0].Name),
		logging.Path(q.location),
	)
	return true, nil
}

// Ping logs into the client, reusing an existing session.
func (q *QBittorrent) Ping(ctx context.Context) error {
	return q.login(ctx)
}

func (q *QBittorrent) login(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.loggedIn {
		return nil
	}
	if err := q.api.LoginCtx(ctx); err != nil {
		return services.Wrap(services.ErrExternalTool, "torrent", "login", "qBittorrent login failed; check torrent.host and credentials", err)
	}
	q.loggedIn = true
	return nil
}

// missingEndpoint matches the HTTP statuses old Web API versions answer for
// endpoints they lack.
var missingEndpoint = regexp.MustCompile(`\b40[45]\b`)

// classify maps API failures onto the shared markers. Endpoints missing on
// old Web API versions surface as unsupported; anything else fails only the
// current request.
func classify(op string, err error) error {
	if missingEndpoint.MatchString(err.Error()) {
		return services.Wrap(services.ErrUnsupported, "torrent", op, "client does not support this operation", err)
	}
	return services.Wrap(services.ErrExternalTool, "torrent", op, "qBittorrent request failed", err)
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
