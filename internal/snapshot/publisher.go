package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
	"github.com/datdenkikniet/Peroxidecast/internal/watch"
)

// Publisher uploads two status documents after each watcher pass:
// mounts.json with the full panel and now_playing.json with just the
// live songs. Static sites poll these instead of hitting the station.
type Publisher struct {
	backend StorageProvider
	prefix  string
}

// New returns nil when snapshot publishing is disabled.
func New(cfg *config.Config) *Publisher {
	switch cfg.Snapshot.Provider {
	case "", "none":
		return nil
	case "local":
		log.Printf("📸 Snapshots to local dir %s", cfg.Snapshot.Dir)
		return &Publisher{
			backend: NewLocalProvider(cfg.Snapshot.Dir),
			prefix:  cfg.Snapshot.Prefix,
		}
	default:
		// Defaulting to S3-compatible for anything else
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Snapshot.KeyID, cfg.Snapshot.AppKey, ""),
			Endpoint:         aws.String(cfg.Snapshot.Endpoint),
			Region:           aws.String(cfg.Snapshot.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		log.Printf("📸 Snapshots to bucket %s", cfg.Snapshot.Bucket)
		return &Publisher{
			backend: NewS3Provider(sess, cfg.Snapshot.Bucket),
			prefix:  cfg.Snapshot.Prefix,
		}
	}
}

func (p *Publisher) Publish(ctx context.Context, blocks []watch.DisplayBlock) error {
	if err := p.put("mounts.json", blocks); err != nil {
		return err
	}

	playing := map[string]string{}
	for _, block := range blocks {
		if block.OnAirText == "Yes" && block.Song != "" {
			playing[block.Name] = block.Song
		}
	}
	return p.put("now_playing.json", playing)
}

func (p *Publisher) put(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	key := p.prefix + name
	if err := p.backend.Put(key, bytes.NewReader(data), "application/json", "max-age=0, no-cache"); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
