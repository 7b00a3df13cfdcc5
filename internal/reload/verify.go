package reload

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"codeberg.org/miekg/dns"
	"github.com/vitistack/dnsmasq-hosts/internal/model"
)

const defaultQueryTimeout = 2 * time.Second

// DNSVerifier asks dnsmasq for a changed hostname and compares the answer
// with the address that was written.
type DNSVerifier struct {
	client  *dns.Client
	addr    string
	settle  time.Duration
	timeout time.Duration
}

// NewDNSVerifier queries addr after waiting settle for dnsmasq to re-read its files.
func NewDNSVerifier(addr string, settle time.Duration) *DNSVerifier {
	return &DNSVerifier{
		client:  dns.NewClient(),
		addr:    addr,
		settle:  settle,
		timeout: defaultQueryTimeout,
	}
}

func (v *DNSVerifier) Verify(ctx context.Context, entry model.HostEntry) error {
	ip, err := netip.ParseAddr(entry.IP)
	if err != nil || entry.Hostname == "" {
		return fmt.Errorf("%w: %q %q", ErrInvalidRecord, entry.IP, entry.Hostname)
	}
	ip = ip.Unmap()
	qtype := dns.TypeA
	if ip.Is6() {
		qtype = dns.TypeAAAA
	}

	if v.settle > 0 {
		select {
		case <-time.After(v.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	msg := dns.NewMsg(fqdn(entry.Hostname), qtype)
	resp, _, err := v.client.Exchange(ctx, msg, "udp", v.addr)
	if err != nil {
		return fmt.Errorf("%w: query %s: %w", ErrVerify, v.addr, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("%w: %s answered rcode %d", ErrVerify, v.addr, resp.Rcode)
	}

	for _, rr := range resp.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			if rec.Addr.Unmap() == ip {
				return nil
			}
		case *dns.AAAA:
			if rec.Addr == ip {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s not in answer for %s", ErrVerify, entry.IP, entry.Hostname)
}

func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}
