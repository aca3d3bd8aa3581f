package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"youtube-trends/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const readonlyScope = "https://www.googleapis.com/auth/youtube.readonly"

// oauthHTTPClient builds an HTTP client authorized with a stored (or freshly
// obtained) OAuth token. Used only when no API key is configured.
func oauthHTTPClient(ctx context.Context, cfg *config.YouTubeConfig) (*http.Client, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{readonlyScope},
		Endpoint:     google.Endpoint,
	}

	token, err := getToken(ctx, oauthConfig, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth token: %w", err)
	}

	return oauth2.NewClient(ctx, &tokenSaver{
		config:    oauthConfig,
		token:     token,
		tokenFile: cfg.TokenFile,
	}), nil
}

// tokenSaver refreshes the token on demand and writes refreshed tokens back
// to tokenFile.
type tokenSaver struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	mu        sync.Mutex
}

func (ts *tokenSaver) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	newToken, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}

	if newToken.AccessToken != ts.token.AccessToken {
		log.Println("Token refreshed, saving to file")
		ts.token = newToken
		if err := saveToken(ts.tokenFile, newToken); err != nil {
			log.Printf("Warning: Failed to save refreshed token: %v", err)
		}
	}

	return newToken, nil
}

// getToken prefers a stored token. Expired tokens are kept as long as they
// carry a refresh token; otherwise the device flow is started.
func getToken(ctx context.Context, oauthConfig *oauth2.Config, tokenFile string) (*oauth2.Token, error) {
	if tok, err := tokenFromFile(tokenFile); err == nil {
		if tok.RefreshToken != "" || tok.Valid() {
			return tok, nil
		}
	}

	log.Println("No usable stored token, starting device authorization...")
	tok, err := deviceFlowToken(ctx, oauthConfig)
	if err != nil {
		return nil, err
	}

	if err := saveToken(tokenFile, tok); err != nil {
		log.Printf("Warning: Failed to save token: %v", err)
	}
	return tok, nil
}

func deviceFlowToken(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	resp, err := oauthConfig.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("unable to start device authorization: %w", err)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 80))
	fmt.Printf("YOUTUBE DEVICE AUTHORIZATION REQUIRED\n")
	fmt.Printf("Visit %s and enter the code: %s\n", resp.VerificationURI, resp.UserCode)
	fmt.Printf("Waiting for authorization to complete... (Ctrl+C to cancel)\n")
	fmt.Printf("%s\n", strings.Repeat("=", 80))

	tok, err := oauthConfig.DeviceAccessToken(ctx, resp, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("device authorization did not complete: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode oauth token: %w", err)
	}
	return nil
}
