package config

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

var (
	firestoreClient   *firestore.Client
	firestoreClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// GetFirestore returns the shared Firestore client, initializing with retries
// if needed. It uses Application Default Credentials unless
// FIRESTORE_CREDENTIALS_JSON is provided.
func GetFirestore(ctx context.Context) (*firestore.Client, error) {
	return getFirestoreClient(ctx)
}

func getFirestoreProjectID() string {
	// Prefer explicit override.
	if v := os.Getenv("FIRESTORE_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	// Common fallback.
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getFirestoreClient(ctx context.Context) (*firestore.Client, error) {
	firestoreClientMu.Lock()
	if firestoreClient != nil {
		c := firestoreClient
		firestoreClientMu.Unlock()
		return c, nil
	}
	firestoreClientMu.Unlock()

	projectID := getFirestoreProjectID()
	if projectID == "" {
		return nil, errors.New("FIRESTORE_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	credJSON := os.Getenv("FIRESTORE_CREDENTIALS_JSON")

	var attempt int
	for {
		attempt++

		var (
			c   *firestore.Client
			err error
		)
		if credJSON != "" {
			c, err = firestore.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			// Uses Application Default Credentials (Cloud Run service account or GOOGLE_APPLICATION_CREDENTIALS).
			c, err = firestore.NewClient(ctx, projectID)
		}
		if err == nil {
			firestoreClientMu.Lock()
			if firestoreClient == nil {
				firestoreClient = c
			} else {
				// Another goroutine won the race; close ours.
				_ = c.Close()
			}
			c2 := firestoreClient
			firestoreClientMu.Unlock()

			log.Printf("firestore client ready (project_id=%s attempt=%d)", projectID, attempt)
			return c2, nil
		}

		if attempt >= 5 {
			return nil, err
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to init firestore client (project_id=%s attempt=%d): %v; retrying in %s", projectID, attempt, err, sleep)
		time.Sleep(sleep)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
