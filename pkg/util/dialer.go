package util

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// Dialer - interface for http dialer for proxy connections
type Dialer interface {
	DialContext(ctx context.Context, network string, addr string) (net.Conn, error)
}

type connectDialer struct {
	proxyAddress string
	userName     string
	password     string
	netDialer    *net.Dialer
}

func newNetDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 50 * time.Second,
	}
}

// NewDialer - creates a dialer that tunnels through the proxy. http and https proxies
// are reached with CONNECT, socks5 proxies through x/net/proxy.
func NewDialer(proxyURL *url.URL) (Dialer, error) {
	if proxyURL == nil {
		return newNetDialer(), nil
	}

	switch proxyURL.Scheme {
	case "socks5", "socks5h":
		d, err := proxy.FromURL(proxyURL, newNetDialer())
		if err != nil {
			return nil, err
		}
		ctxDialer, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("proxy dialer for %s does not support contexts", proxyURL.Scheme)
		}
		return ctxDialer, nil
	case "http", "https":
		d := &connectDialer{
			proxyAddress: proxyURL.Host,
			netDialer:    newNetDialer(),
		}
		if user := proxyURL.User; user != nil {
			d.userName = user.Username()
			d.password, _ = user.Password()
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}
}

// DialContext - connects to the proxy and asks it to tunnel to addr
func (d *connectDialer) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
	conn, err := d.netDialer.DialContext(ctx, network, d.proxyAddress)
	if err != nil {
		return nil, err
	}
	err = d.proxyConnect(ctx, conn, addr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (d *connectDialer) proxyConnect(ctx context.Context, conn net.Conn, targetAddr string) error {
	req := d.createConnectRequest(ctx, targetAddr)
	if err := req.Write(conn); err != nil {
		return err
	}

	r := bufio.NewReader(conn)
	resp, err := http.ReadResponse(r, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to connect proxy, status : %s", resp.Status)
	}
	return nil
}

func (d *connectDialer) createConnectRequest(ctx context.Context, targetAddress string) *http.Request {
	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: targetAddress},
		Host:   targetAddress,
		Header: http.Header{},
	}

	if d.userName != "" {
		token := base64.StdEncoding.EncodeToString([]byte(d.userName + ":" + d.password))
		req.Header.Set("Proxy-Authorization", "Basic "+token)
	}
	return req.WithContext(ctx)
}
