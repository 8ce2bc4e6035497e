package network

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/miekg/dns"
	"golang.org/x/sync/singleflight"
)

// Resolver queries a specific DNS server directly, bypassing the HOSTS file.
// Answers are cached for their TTL and concurrent identical queries share
// one exchange.
type Resolver struct {
	Timeout time.Duration

	cache *answerCache
	group singleflight.Group
}

func NewResolver() *Resolver {
	return &Resolver{
		Timeout: 5 * time.Second,
		cache:   newAnswerCache(),
	}
}

// LookupA returns the IPv4 addresses server answers for domain. server may
// carry a port; port 53 is assumed otherwise.
func (r *Resolver) LookupA(ctx context.Context, domain, server string) ([]string, error) {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	key := strings.ToLower(dns.Fqdn(domain)) + "@" + server
	if addrs, ok := r.cache.get(key); ok {
		log.Debug("dns cache hit for %s", key)
		return addrs, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		addrs, ttl, err := r.exchange(ctx, domain, server)
		if err != nil {
			return nil, err
		}
		r.cache.cleanupExpired()
		r.cache.set(key, addrs, ttl)
		return addrs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (r *Resolver) exchange(ctx context.Context, domain, server string) ([]string, time.Duration, error) {
	client := &dns.Client{
		Timeout: r.Timeout,
	}
	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)

	response, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s via %s: %w", domain, server, err)
	}
	if response.Rcode != dns.RcodeSuccess {
		return nil, 0, fmt.Errorf("query %s via %s: %s", domain, server, dns.RcodeToString[response.Rcode])
	}

	var (
		addrs  []string
		minTTL uint32
	)
	for _, rr := range response.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
			if minTTL == 0 || a.Hdr.Ttl < minTTL {
				minTTL = a.Hdr.Ttl
			}
		}
	}
	return addrs, time.Duration(minTTL) * time.Second, nil
}
