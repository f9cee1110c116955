package inbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/source"
)

type Config struct {
	IMAPHost     string
	IMAPPort     int
	Username     string
	Password     string
	LookbackDays int
	MaxMessages  int
}

// Adapter pulls job alert emails over IMAP and parses the postings out of
// their HTML bodies. Messages are fetched with BODY.PEEK so they stay unread.
type Adapter struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Adapter {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 50
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 7
	}
	return &Adapter{cfg: cfg, log: log}
}

func (a *Adapter) Name() string { return string(domain.SourceInbox) }

func (a *Adapter) Fetch(ctx context.Context, _ source.Query) ([]domain.RawPosting, error) {
	if a.cfg.IMAPHost == "" || a.cfg.Username == "" {
		return nil, errors.New("inbox: imap host/username not configured")
	}
	if a.cfg.Password == "" {
		return nil, errors.New("inbox: password not available")
	}

	addr := net.JoinHostPort(a.cfg.IMAPHost, strconv.Itoa(a.cfg.IMAPPort))

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: a.cfg.IMAPHost},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer func() { _ = c.Close() }()

	// best-effort close on context cancel
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(a.cfg.Username, a.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			a.log.Debug("imap logout", zap.Error(err))
		}
	}()

	if _, err := c.Select("INBOX", &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select inbox: %w", err)
	}

	msgs, err := a.fetchRecent(ctx, c)
	if err != nil {
		return nil, err
	}

	var out []domain.RawPosting
	for _, m := range msgs {
		svc := serviceFor(m.From)
		if svc == nil {
			continue
		}

		postings, err := svc.Parse(m)
		if err != nil {
			a.log.Debug("alert parse failed",
				zap.String("service", svc.Name),
				zap.String("subject", m.Subject),
				zap.Error(err))
			continue
		}
		out = append(out, postings...)
	}
	return out, nil
}

type message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time
	Raw     []byte
}

func (a *Adapter) fetchRecent(ctx context.Context, c *imapclient.Client) ([]message, error) {
	cutoff := time.Now().AddDate(0, 0, -a.cfg.LookbackDays)

	criteria := &imap.SearchCriteria{Since: cutoff}

	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > a.cfg.MaxMessages {
		uids = uids[:a.cfg.MaxMessages]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}

	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]message, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}

		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		var m message
		m.UID = buf.UID
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			m.Date = buf.Envelope.Date
			m.From = joinAddrs(buf.Envelope.From)
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			m.Raw = append([]byte(nil), b...)
		}
		out = append(out, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func joinAddrs(addrs []imap.Address) string {
	for i := range addrs {
		a := &addrs[i]
		if addr := a.Addr(); addr != "" {
			return addr
		}
		if a.Name != "" {
			return a.Name
		}
	}
	return ""
}
