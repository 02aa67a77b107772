package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/internal/config"
)

const documentsBucket = "owner-documents"

// StorageService talks to Supabase Storage with the service-role key.
// Objects live under a per-user prefix so a path alone identifies its owner.
type StorageService struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	Authorizer authz.Authorizer
	Profiles   *ProfileService
}

func NewStorageService(az authz.Authorizer, profiles *ProfileService) *StorageService {
	return &StorageService{
		baseURL:    config.App.SupabaseURL,
		serviceKey: config.App.SupabaseServiceRoleKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Authorizer: az,
		Profiles:   profiles,
	}
}

// UploadIDDocument stores a KYC document under the user's prefix and records
// the object path on their profile. Returns the stored path.
func (s *StorageService) UploadIDDocument(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error) {
	if s.baseURL == "" || s.serviceKey == "" {
		return "", fmt.Errorf("storage is not configured")
	}

	objectPath := fmt.Sprintf("%s/%d_%s", userID, time.Now().Unix(), path.Base(filename))
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, documentsBucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage upload returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := s.Profiles.SetIDDocumentPath(ctx, userID, objectPath); err != nil {
		return "", err
	}

	log.Printf("[Storage] Uploaded document for user %s: %s", userID, objectPath)
	return objectPath, nil
}

// SignedDocumentURL returns a short-lived download URL for a stored document.
// Only the document's owner or a super admin may fetch one; everyone else
// gets ErrNotFound so the path is never confirmed to exist.
func (s *StorageService) SignedDocumentURL(ctx context.Context, callerID, ownerID string) (string, error) {
	if callerID != ownerID && !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		return "", authz.ErrNotFound
	}

	profile, err := s.Profiles.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if profile.IDDocumentPath == "" {
		return "", authz.ErrNotFound
	}

	url := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", s.baseURL, documentsBucket, profile.IDDocumentPath)
	payload, _ := json.Marshal(map[string]int{"expiresIn": 3600})

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create sign request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to sign document URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage sign returned %d: %s", resp.StatusCode, string(respBody))
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("failed to decode sign response: %w", err)
	}

	return s.baseURL + "/storage/v1" + signed.SignedURL, nil
}
