// Command refreshimages replaces the pictures of validated posts with
// fresh placeholder images, seeded by post id so reruns stay stable.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/lseverin/mapclash/backend/internal/config"
	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/store"
)

func main() {
	limit := flag.Int64("limit", 15, "maximum number of posts to refresh")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	mongoClient, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)
	postStore := store.NewPostStore(db)

	pictures, err := store.NewPictureStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	validated := true
	posts, err := postStore.List(ctx, models.PostFilter{IsValidated: &validated, Limit: *limit})
	if err != nil {
		log.Fatalf("list posts: %v", err)
	}
	log.Printf("Found %d validated posts", len(posts))

	httpClient := &http.Client{Timeout: 15 * time.Second}
	for i, post := range posts {
		url := fmt.Sprintf("https://picsum.photos/seed/%s/800/500", post.ID.Hex())
		log.Printf("%d/%d fetching %s", i+1, len(posts), url)

		data, err := fetchImage(ctx, httpClient, url)
		if err != nil {
			log.Printf("post %s: %v", post.ID.Hex(), err)
			continue
		}

		key := post.PictureKey
		if key == "" {
			key = "posts/" + post.ID.Hex()
		}
		if err := pictures.Upload(ctx, key, data, "image/jpeg"); err != nil {
			log.Printf("post %s: upload: %v", post.ID.Hex(), err)
			continue
		}

		post.PictureKey = key
		post.PictureContentType = "image/jpeg"
		post.PictureSize = int64(len(data))
		if err := postStore.Update(ctx, &post); err != nil {
			log.Printf("post %s: update: %v", post.ID.Hex(), err)
			continue
		}
		log.Printf("updated post %s — image %d bytes", post.ID.Hex(), len(data))
	}
	log.Println("Done")
}

func fetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
