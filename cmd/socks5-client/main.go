// Package main is the entry point for the reference SOCKS5 client. It
// is a thin local front-end: each accepted connection reads a single
// "host:port" line, then drives a CONNECT through the configured
// upstream SOCKS5 server and relays the rest of the bytes untouched.
package main

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/loncothad/socker/client"
	"github.com/loncothad/socker/internal/config"
	"github.com/loncothad/socker/internal/logger"
	"github.com/loncothad/socker/internal/netutil"
	"github.com/loncothad/socker/socks5"
)

func main() {
	log := logger.Default()

	cfg, err := config.LoadClientConfig(cfgPathFlag)
	if err != nil {
		log.Errorf("invalid config file: %v", err)
		return
	}

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Errorf("listen on %s: %v", cfg.ListenAddress, err)
		return
	}
	log.Debugf("client front-end listening on %s", cfg.ListenAddress)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Warnf("accept: %v", err)
			continue
		}
		go handleConnection(cfg, conn, log)
	}
}

func handleConnection(cfg *config.ClientConfig, conn net.Conn, log *logger.Logger) {
	defer conn.Close()

	target, port, err := readTargetLine(conn)
	if err != nil {
		log.Warnf("reading target line: %v", err)
		return
	}

	upstream, err := net.DialTimeout("tcp", cfg.UpstreamAddress, cfg.DialTimeout())
	if err != nil {
		log.Warnf("dialing upstream %s: %v", cfg.UpstreamAddress, err)
		return
	}
	defer upstream.Close()

	var creds *client.Credentials
	if cfg.Account != nil {
		creds, err = client.NewCredentials([]byte(cfg.Account.Username), []byte(cfg.Account.Password))
		if err != nil {
			log.Errorf("invalid account in config: %v", err)
			return
		}
	}

	methods := []socks5.AuthenticationMethod{socks5.NoAuthentication}
	if creds != nil {
		methods = append(methods, socks5.UsernamePassword)
	}

	c := client.New(upstream, methods, creds)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HandshakeTimeout())
	defer cancel()

	relayConn, err := c.ConnectToTarget(ctx, target, port)
	if err != nil {
		log.Warnf("connect to target: %v", err)
		return
	}

	if err := netutil.Relay(conn, relayConn, nil); err != nil {
		log.Warnf("relay: %v", err)
	}
}

// readTargetLine reads a single "host:port\n" line from conn and
// parses it into a socks5.Address and port. It reads one byte at a
// time, so nothing after the newline is consumed from conn.
func readTargetLine(conn net.Conn) (socks5.Address, uint16, error) {
	var sb strings.Builder
	b := make([]byte, 1)
	for {
		if _, err := io.ReadFull(conn, b); err != nil {
			return socks5.Address{}, 0, err
		}
		if b[0] == '\n' {
			break
		}
		sb.WriteByte(b[0])
	}
	line := strings.TrimSpace(sb.String())

	host, portStr, err := net.SplitHostPort(line)
	if err != nil {
		return socks5.Address{}, 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return socks5.Address{}, 0, err
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return socks5.NewIPv4Address(ip), uint16(port), nil
		}
		return socks5.NewIPv6Address(ip), uint16(port), nil
	}

	addr, err := socks5.NewDomainAddress([]byte(host))
	if err != nil {
		return socks5.Address{}, 0, err
	}
	return addr, uint16(port), nil
}
