package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"commonroom-backend-go/internal/config"
)

var (
	// fbApp is the global Firebase app instance, shared with the storage layer.
	fbApp *firebase.App
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore
// and Auth clients. It uses credentials and project ID from the provided
// appConfig: either a credentials file path, a base64-encoded service account
// JSON, or Application Default Credentials when neither is set.
func InitFirebase(ctx context.Context, appConfig *config.Config) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var credsOption option.ClientOption

	if appConfig.GoogleApplicationCredentials != "" {
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			log.Printf("Warning: credentials file specified in GOOGLE_APPLICATION_CREDENTIALS does not exist: %s", appConfig.GoogleApplicationCredentials)
		}
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	} else if appConfig.FirebaseServiceAccountJSONBase64 != "" {
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	}
	// With neither set the SDK falls back to ADC, which is the normal setup on
	// GCE/GKE/Cloud Run.

	firebaseAppConfig := &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.StorageBucket,
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}
	fbApp = app

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}
	fsClient = client

	authCl, err := app.Auth(ctx)
	if err != nil {
		if fsClient != nil {
			fsClient.Close() // Best effort close
		}
		return fmt.Errorf("app.Auth: %w", err)
	}
	fbAuthClient = authCl

	return nil
}

// GetFirebaseApp returns the global Firebase app. The storage layer uses it to
// obtain a bucket handle.
func GetFirebaseApp() *firebase.App {
	if fbApp == nil {
		log.Println("Warning: GetFirebaseApp called before InitFirebase or InitFirebase failed.")
	}
	return fbApp
}

// GetFirestoreClient returns the global Firestore client.
// Callers should check if the client is nil, implying InitFirebase hasn't been called or failed.
func GetFirestoreClient() *firestore.Client {
	if fsClient == nil {
		log.Println("Warning: GetFirestoreClient called before InitFirebase or InitFirebase failed.")
	}
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client.
// Callers should check if the client is nil.
func GetFirebaseAuthClient() *auth.Client {
	if fbAuthClient == nil {
		log.Println("Warning: GetFirebaseAuthClient called before InitFirebase or InitFirebase failed.")
	}
	return fbAuthClient
}
