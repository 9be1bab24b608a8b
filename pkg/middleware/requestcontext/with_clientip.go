package requestcontext

import (
	"context"
	"log/slog"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// [Optional] TrustedProxiesIP is a list of all proxies IP ranges that's between the server and the client.
	//
	// If it's provided, it will walk backwards from the last IP in `X-Forwarded-For` header
	// and use first IP that's not trusted proxy(not in the given IP ranges.)
	//
	// **If you want to use this option, you should provide all of probable proxies IP ranges.**
	//
	// This is lowest priority.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// [Optional] TrustedHeader is a header name for getting client IP. (e.g. X-Real-IP, CF-Connecting-IP, etc.)
	//
	// This is highest priority, it will ignore rest of the options if it's provided.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// EnableRejectMalformedRequest return 403 Forbidden if the request is from proxies, but can't extract client IP
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// WithClientIP stores the client IP in the context and its logger, so that purchases
// and claims are logged with the address they came from.
//
// Priority: TrustedHeader, then the first untrusted hop of X-Forwarded-For walking
// backwards, then the remote address for direct requests.
func WithClientIP(config WithClientIPConfig) Option {
	var trustedProxies trustedProxy
	if len(config.TrustedProxiesIP) > 0 {
		proxy, err := newTrustedProxy(config.TrustedProxiesIP)
		if err != nil {
			logger.Panic("Failed to parse trusted proxies", slogx.Error(err))
		}
		trustedProxies = proxy
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		ip, ok := resolveClientIP(c, config.TrustedHeader, trustedProxies)
		if !ok {
			if config.EnableRejectMalformedRequest {
				logger.WarnContext(ctx, "IP Spoofing detected, returning 403 Forbidden",
					slog.String("event", "requestcontext/ip_spoofing_detected"),
					slog.String("ip", c.IP()),
					slog.Any("ips", c.IPs()),
				)
				return nil, requestcontextError{
					status:  fiber.StatusForbidden,
					code:    "Forbidden",
					message: "not allowed to access",
				}
			}
			// fall back to the first hop of X-Forwarded-For
			ip = c.IPs()[0]
		}

		ctx = context.WithValue(ctx, clientIPKey{}, ip)
		ctx = logger.WithContext(ctx, slogx.String("client_ip", ip))
		return ctx, nil
	}
}

// resolveClientIP returns false when the request came through proxies but no
// hop could be trusted.
func resolveClientIP(c *fiber.Ctx, trustedHeader string, trustedProxies trustedProxy) (string, bool) {
	if trustedHeader != "" {
		if headerIP := c.Get(trustedHeader); net.ParseIP(headerIP) != nil {
			return headerIP, true
		}
	}

	rawIPs := c.IPs()
	ips := parseIPs(rawIPs)
	if len(ips) == 0 {
		return c.IP(), true
	}

	if len(trustedProxies) > 0 {
		for i := len(ips) - 1; i >= 0; i-- {
			if !trustedProxies.IsTrusted(ips[i]) {
				return ips[i].String(), true
			}
		}
		// every hop is a trusted proxy
		return rawIPs[0], true
	}
	return "", false
}

// GetClientIP returns the client IP, or empty string outside of a request.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

type trustedProxy []*net.IPNet

// newTrustedProxy create a new trusted proxies instance for preventing IP spoofing (XFF Attacks)
func newTrustedProxy(ranges []string) (trustedProxy, error) {
	nets, err := parseCIDRs(ranges)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return trustedProxy(nets), nil
}

func (t trustedProxy) IsTrusted(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, r := range t {
		if r.Contains(ip) {
			return true
		}
	}
	return false
}

func parseCIDRs(ranges []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(ranges))
	for _, r := range ranges {
		_, ipnet, err := net.ParseCIDR(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse CIDR for %q", r)
		}
		nets = append(nets, ipnet)
	}
	return nets, nil
}

func parseIPs(ranges []string) []net.IP {
	ip := make([]net.IP, 0, len(ranges))
	for _, r := range ranges {
		ip = append(ip, net.ParseIP(r))
	}
	return ip
}
