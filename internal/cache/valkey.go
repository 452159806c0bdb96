package cache

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/valkey-io/valkey-go"
)

type connInfo struct {
	addr     string
	username string
	password string
	selectDB int
}

// NewValkeyClient 는 redis://, valkey:// URL 로 Valkey 클라이언트를 생성한다.
func NewValkeyClient(rawURL string) (valkey.Client, error) {
	conn, err := parseCacheURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}
	return client, nil
}

func parseCacheURL(raw string) (connInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return connInfo{}, errors.New("cache url is empty")
	}

	if !strings.Contains(raw, "://") {
		return parseCacheAddr(raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return connInfo{}, fmt.Errorf("parse url: %w", err)
	}

	switch parsed.Scheme {
	case "redis", "valkey":
	default:
		return connInfo{}, fmt.Errorf("unsupported cache scheme: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return connInfo{}, errors.New("cache host missing")
	}
	port := parsed.Port()
	if port == "" {
		port = "6379"
	}

	info := connInfo{addr: net.JoinHostPort(host, port)}
	if parsed.User != nil {
		info.username = parsed.User.Username()
		info.password, _ = parsed.User.Password()
	}

	dbPath := strings.Trim(parsed.Path, "/")
	if dbPath != "" {
		db, err := strconv.Atoi(dbPath)
		if err != nil {
			return connInfo{}, fmt.Errorf("parse cache db index: %w", err)
		}
		info.selectDB = db
	}
	return info, nil
}

func parseCacheAddr(raw string) (connInfo, error) {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return connInfo{addr: net.JoinHostPort(raw, "6379")}, nil
	}
	return connInfo{addr: net.JoinHostPort(host, port)}, nil
}
