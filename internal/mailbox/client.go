// Package mailbox wraps the IMAP operations the alert ingestor needs:
// searching unseen messages from a sender, fetching raw bodies, and
// flagging messages as seen.
package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	id "github.com/emersion/go-imap-id"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/OnRiseAI/content-automation/internal/config"
)

var (
	// ErrConnectionFailed indicates the IMAP connection or login failed
	ErrConnectionFailed = errors.New("IMAP connection failed")
	// ErrMessageNotFound indicates the requested message had no body
	ErrMessageNotFound = errors.New("message not found")
)

const (
	dialTimeout    = 10 * time.Second
	commandTimeout = 5 * time.Minute
)

// Session is an authenticated IMAP connection with a selected mailbox
type Session struct {
	c *client.Client
}

// Dial connects to the configured IMAP server and authenticates.
// The caller owns the session and must Close it.
func Dial(cfg *config.Config) (*Session, error) {
	addr := fmt.Sprintf("%s:%d", cfg.IMAPHost, cfg.IMAPPort)
	dialer := &net.Dialer{Timeout: dialTimeout}

	var c *client.Client
	if cfg.IMAPUseSSL {
		tlsConfig := &tls.Config{ServerName: cfg.IMAPHost}
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		c, err = client.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
	} else {
		conn, err := dialer.Dial("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		c, err = client.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
	}

	c.Timeout = commandTimeout

	// Some providers require client identification before login.
	// Failures are not fatal, most servers accept logins without it.
	if ok, _ := c.Support("ID"); ok {
		idClient := id.NewClient(c)
		_, _ = idClient.ID(id.ID{
			id.FieldName:    "content-automation",
			id.FieldVersion: "1.0.0",
		})
	}

	if cfg.IMAPAuth == config.AuthTypeOAuth2 {
		accessToken, err := gmailAccessToken(cfg)
		if err != nil {
			c.Logout()
			return nil, fmt.Errorf("%w: OAuth token refresh failed: %v", ErrConnectionFailed, err)
		}
		sasl := newXOAuth2Client(cfg.IMAPUsername, accessToken)
		if err := c.Authenticate(sasl); err != nil {
			c.Logout()
			return nil, fmt.Errorf("%w: XOAUTH2 authentication failed: %v", ErrConnectionFailed, err)
		}
	} else {
		if err := c.Login(cfg.IMAPUsername, cfg.IMAPPassword); err != nil {
			c.Logout()
			return nil, fmt.Errorf("%w: login failed: %v", ErrConnectionFailed, err)
		}
	}

	return &Session{c: c}, nil
}

// gmailAccessToken exchanges the stored refresh token for an access token
func gmailAccessToken(cfg *config.Config) (string, error) {
	oc := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}
	source := oc.TokenSource(context.Background(), &oauth2.Token{
		RefreshToken: cfg.IMAPOAuthRefreshToken,
	})
	token, err := source.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// SelectMailbox selects the named mailbox for subsequent operations
func (s *Session) SelectMailbox(name string) error {
	_, err := s.c.Select(name, false)
	if err != nil {
		return fmt.Errorf("failed to select %s: %v", name, err)
	}
	return nil
}

// SearchUnseenFrom returns the UIDs of unseen messages from the given sender.
// The seen flag is the sole dedup mechanism: no date filter is applied.
func (s *Session) SearchUnseenFrom(sender string) ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Header.Add("From", sender)
	uids, err := s.c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search failed: %v", err)
	}
	return uids, nil
}

// FetchRaw fetches the full raw RFC 822 message for a UID. The fetch uses
// BODY.PEEK so it does not set the seen flag itself; marking messages seen
// is an explicit MarkSeen call.
func (s *Session) FetchRaw(uid uint32) ([]byte, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)

	go func() {
		done <- s.c.UidFetch(seqSet, items, messages)
	}()

	var raw []byte
	for msg := range messages {
		if msg == nil {
			continue
		}
		for _, literal := range msg.Body {
			content, err := io.ReadAll(literal)
			if err == nil && len(content) > 0 {
				raw = content
			}
		}
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch failed for uid %d: %v", uid, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: uid %d", ErrMessageNotFound, uid)
	}
	return raw, nil
}

// MarkSeen sets the \Seen flag on a message
func (s *Session) MarkSeen(uid uint32) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := s.c.UidStore(seqSet, item, flags, nil); err != nil {
		return fmt.Errorf("failed to mark uid %d seen: %v", uid, err)
	}
	return nil
}

// Close logs out and closes the connection
func (s *Session) Close() error {
	return s.c.Logout()
}
