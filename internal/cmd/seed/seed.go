// Package seed fills a local development database with demo accounts,
// posts, and engagement so the app has something to show on first run.
package seed

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/lumeapp/lume/internal/platform/storage/blobstore"
	"github.com/lumeapp/lume/internal/services/api/domain/directory"
	"github.com/lumeapp/lume/internal/services/api/domain/engagement"
	"github.com/lumeapp/lume/internal/services/api/domain/graph"
	"github.com/lumeapp/lume/internal/services/api/domain/posts"
	"github.com/lumeapp/lume/internal/services/api/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath    string
	MediaPath string
	Verbose   bool
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		DBPath:    envOrDefault(lookup, "LUME_API_DB_PATH", filepath.Join("data", "api.db")),
		MediaPath: envOrDefault(lookup, "LUME_API_MEDIA_PATH", filepath.Join("data", "media")),
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the API sqlite database")
	fs.StringVar(&cfg.MediaPath, "media", cfg.MediaPath, "path to the media object directory")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type userFixture struct {
	subject  string
	username string
	fullname string
	email    string
}

type postFixture struct {
	owner   string // username
	slug    string
	caption string
	tint    color.NRGBA
}

var userFixtures = []userFixture{
	{subject: "seed|ava", username: "ava", fullname: "Ava Moreno", email: "ava@lume.test"},
	{subject: "seed|ben", username: "ben", fullname: "Ben Okafor", email: "ben@lume.test"},
	{subject: "seed|chloe", username: "chloe", fullname: "Chloe Tran", email: "chloe@lume.test"},
	{subject: "seed|diego", username: "diego", fullname: "Diego Ruiz", email: "diego@lume.test"},
}

var postFixtures = []postFixture{
	{owner: "ava", slug: "harbor", caption: "Morning light at the harbor", tint: color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}},
	{owner: "ava", slug: "trail", caption: "Found a new trail today", tint: color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}},
	{owner: "ben", slug: "espresso", caption: "Dialing in the espresso grinder", tint: color.NRGBA{R: 0x92, G: 0x5b, B: 0x2d, A: 0xff}},
	{owner: "chloe", slug: "studio", caption: "Studio day", tint: color.NRGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}},
	{owner: "diego", slug: "rooftop", caption: "Rooftop sunset", tint: color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}},
}

// follower -> followed, by username.
var followFixtures = [][2]string{
	{"ben", "ava"},
	{"chloe", "ava"},
	{"diego", "ava"},
	{"ava", "ben"},
	{"ben", "chloe"},
}

// liker username -> post slug.
var likeFixtures = [][2]string{
	{"ben", "harbor"},
	{"chloe", "harbor"},
	{"diego", "harbor"},
	{"ava", "espresso"},
	{"ben", "studio"},
}

var commentFixtures = []struct {
	author  string
	slug    string
	content string
}{
	{author: "ben", slug: "harbor", content: "That light is unreal"},
	{author: "chloe", slug: "harbor", content: "Which pier is this?"},
	{author: "ava", slug: "espresso", content: "Save me a cup"},
}

// Run executes the seed command. Rerunning against an already seeded
// database is a no-op.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open sqlite store: %w", err)
	}
	defer store.Close()

	blobs, err := blobstore.OpenDisk(cfg.MediaPath)
	if err != nil {
		return fmt.Errorf("open media store: %w", err)
	}

	if _, err := store.GetUserBySubject(ctx, userFixtures[0].subject); err == nil {
		fmt.Fprintln(out, "database already seeded, nothing to do")
		return nil
	}

	directoryService := directory.NewService(store, nil, nil)
	graphService := graph.NewService(store, nil, nil)
	postsService := posts.NewService(store, store, store, blobs, mediaPathResolver{}, nil, nil)
	engagementService := engagement.NewService(store, store, store, nil, nil)

	users := make(map[string]string, len(userFixtures))
	for _, fixture := range userFixtures {
		user, err := directoryService.CreateUser(ctx, directory.CreateUserInput{
			Subject:  fixture.subject,
			Username: fixture.username,
			Fullname: fixture.fullname,
			Email:    fixture.email,
		})
		if err != nil {
			return fmt.Errorf("create user %s: %w", fixture.username, err)
		}
		users[fixture.username] = user.ID
		if cfg.Verbose {
			fmt.Fprintf(out, "user %s (%s)\n", fixture.username, user.ID)
		}
	}

	postIDs := make(map[string]string, len(postFixtures))
	for _, fixture := range postFixtures {
		storageID := "seed-" + fixture.slug
		if err := blobs.Put(ctx, storageID, "image/png", bytes.NewReader(placeholderImage(fixture.tint))); err != nil {
			return fmt.Errorf("store image %s: %w", storageID, err)
		}
		post, err := postsService.Create(ctx, posts.CreateInput{
			OwnerID:   users[fixture.owner],
			StorageID: storageID,
			Caption:   fixture.caption,
		})
		if err != nil {
			return fmt.Errorf("create post %s: %w", fixture.slug, err)
		}
		postIDs[fixture.slug] = post.ID
		if cfg.Verbose {
			fmt.Fprintf(out, "post %s by %s (%s)\n", fixture.slug, fixture.owner, post.ID)
		}
	}

	for _, pair := range followFixtures {
		if _, err := graphService.Toggle(ctx, users[pair[0]], users[pair[1]]); err != nil {
			return fmt.Errorf("follow %s -> %s: %w", pair[0], pair[1], err)
		}
	}
	for _, pair := range likeFixtures {
		if _, err := engagementService.ToggleLike(ctx, users[pair[0]], postIDs[pair[1]]); err != nil {
			return fmt.Errorf("like %s on %s: %w", pair[0], pair[1], err)
		}
	}
	for _, fixture := range commentFixtures {
		if _, err := engagementService.AddComment(ctx, users[fixture.author], postIDs[fixture.slug], fixture.content); err != nil {
			return fmt.Errorf("comment by %s on %s: %w", fixture.author, fixture.slug, err)
		}
	}

	fmt.Fprintf(out, "seeded %d users, %d posts, %d follows, %d likes, %d comments\n",
		len(userFixtures), len(postFixtures), len(followFixtures), len(likeFixtures), len(commentFixtures))
	return nil
}

// mediaPathResolver mirrors the API's default local media routes.
type mediaPathResolver struct{}

func (mediaPathResolver) ImageURL(storageID string) string {
	return "/v1/media/" + storageID
}

// placeholderImage renders a small solid-color PNG for a demo post.
func placeholderImage(tint color.NRGBA) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, tint)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func envOrDefault(lookup EnvLookup, key string, fallback string) string {
	if lookup == nil {
		return fallback
	}
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
