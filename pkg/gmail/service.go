package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mail-triage-backend/internal/triage/domain"
)

// ComposeScope is the OAuth scope required to create provider-side drafts.
const ComposeScope = "https://www.googleapis.com/auth/gmail.compose"

// ReadonlyScope is the OAuth scope required to list and read messages.
const ReadonlyScope = "https://www.googleapis.com/auth/gmail.readonly"

const maxConcurrentHydrations = 10

// Service is the thin Gmail adapter: it fetches raw message metadata for a
// trailing date window and creates provider-side drafts. It never sends
// mail and never modifies read/unread or label state.
type Service struct {
	clientID     string
	clientSecret string
	refreshToken string
	accessToken  string
	scopes       []string
}

func NewService(clientID, clientSecret, accessToken, refreshToken string, scopes []string) *Service {
	if len(scopes) == 0 {
		scopes = []string{ReadonlyScope, ComposeScope}
	}
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		accessToken:  accessToken,
		scopes:       scopes,
	}
}

// ComposeEnabled reports whether the compose scope was granted. Callers
// must check this before attempting persistence and disable the action
// rather than calling and failing.
func (s *Service) ComposeEnabled() bool {
	for _, scope := range s.scopes {
		if scope == ComposeScope {
			return true
		}
	}
	return false
}

// getGmailService creates a Gmail API client with the configured credential
func (s *Service) getGmailService(ctx context.Context) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if s.refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       s.scopes,
	}

	client := oauth2.NewClient(ctx, config.TokenSource(ctx, token))

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// FetchRecent returns raw metadata for INBOX messages received within the
// last `days` days, newest first. An empty window is not an error.
func (s *Service) FetchRecent(ctx context.Context, days int) ([]domain.RawMessage, error) {
	srv, err := s.getGmailService(ctx)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = 14
	}

	user := "me"
	after := time.Now().AddDate(0, 0, -days).Unix()
	query := fmt.Sprintf("after:%d", after)

	var ids []string
	pageToken := ""
	for {
		listQuery := srv.Users.Messages.List(user).
			LabelIds("INBOX").
			Q(query).
			MaxResults(100)
		if pageToken != "" {
			listQuery = listQuery.PageToken(pageToken)
		}

		resp, err := listQuery.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list messages: %v", err)
		}

		for _, msg := range resp.Messages {
			ids = append(ids, msg.Id)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	// Hydrate messages in parallel with a bounded number of in-flight calls
	type fetchResult struct {
		raw domain.RawMessage
		err error
	}

	resultChan := make(chan fetchResult, len(ids))
	semaphore := make(chan struct{}, maxConcurrentHydrations)

	for _, id := range ids {
		go func(msgID string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			raw, err := s.hydrateMessage(ctx, srv, msgID)
			resultChan <- fetchResult{raw, err}
		}(id)
	}

	raws := make([]domain.RawMessage, 0, len(ids))
	for range ids {
		result := <-resultChan
		if result.err != nil {
			// Skip messages we cannot load; the rest of the window is
			// still usable
			continue
		}
		raws = append(raws, result.raw)
	}

	sort.Slice(raws, func(i, j int) bool {
		return raws[i].InternalDate.After(raws[j].InternalDate)
	})

	return raws, nil
}

func (s *Service) hydrateMessage(ctx context.Context, srv *gmail.Service, messageID string) (domain.RawMessage, error) {
	user := "me"
	msg, err := srv.Users.Messages.Get(user, messageID).Format("metadata").Context(ctx).Do()
	if err != nil {
		return domain.RawMessage{}, fmt.Errorf("unable to retrieve message %s: %v", messageID, err)
	}

	headers := make(map[string]string)
	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			headers[strings.ToLower(header.Name)] = header.Value
		}
	}

	return domain.RawMessage{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Headers:      headers,
		LabelIDs:     msg.LabelIds,
		Snippet:      msg.Snippet,
		InternalDate: time.Unix(msg.InternalDate/1000, 0),
		ThreadSize:   s.fetchThreadSize(ctx, srv, msg.ThreadId),
		SizeEstimate: msg.SizeEstimate,
	}, nil
}

// fetchThreadSize returns the number of messages in a thread, defaulting
// to 1 when the thread cannot be loaded.
func (s *Service) fetchThreadSize(ctx context.Context, srv *gmail.Service, threadID string) int {
	if threadID == "" {
		return 1
	}

	thread, err := srv.Users.Threads.Get("me", threadID).Format("minimal").Context(ctx).Do()
	if err != nil || len(thread.Messages) == 0 {
		return 1
	}
	return len(thread.Messages)
}

// CreateDraft creates a Gmail draft replying to the given record and
// returns the provider draft id.
func (s *Service) CreateDraft(ctx context.Context, record domain.MessageRecord, body string) (string, error) {
	if !s.ComposeEnabled() {
		return "", fmt.Errorf("gmail compose scope not granted")
	}

	srv, err := s.getGmailService(ctx)
	if err != nil {
		return "", err
	}

	to := record.Sender.Address
	if record.Sender.Name != "" {
		to = fmt.Sprintf("%s <%s>", record.Sender.Name, record.Sender.Address)
	}

	subject := record.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	var raw bytes.Buffer
	raw.WriteString(fmt.Sprintf("To: %s\r\n", to))
	raw.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	raw.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(body)

	draft := &gmail.Draft{
		Message: &gmail.Message{
			Raw:      base64.URLEncoding.EncodeToString(raw.Bytes()),
			ThreadId: record.ThreadID,
		},
	}

	created, err := srv.Users.Drafts.Create("me", draft).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create draft: %v", err)
	}

	return created.Id, nil
}
