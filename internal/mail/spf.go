package mail

import (
	"context"
	"net"

	"blitiri.com.ar/go/spf"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
)

// SPFResult represents the result of an SPF check.
type SPFResult int

const (
	SPFNone SPFResult = iota
	SPFNeutral
	SPFPass
	SPFFail
	SPFSoftFail
	SPFTempError
	SPFPermError
)

func (r SPFResult) String() string {
	switch r {
	case SPFNone:
		return "none"
	case SPFNeutral:
		return "neutral"
	case SPFPass:
		return "pass"
	case SPFFail:
		return "fail"
	case SPFSoftFail:
		return "softfail"
	case SPFTempError:
		return "temperror"
	case SPFPermError:
		return "permerror"
	default:
		return "unknown"
	}
}

func fromLibrary(r spf.Result) SPFResult {
	switch r {
	case spf.Pass:
		return SPFPass
	case spf.Fail:
		return SPFFail
	case spf.SoftFail:
		return SPFSoftFail
	case spf.Neutral:
		return SPFNeutral
	case spf.TempError:
		return SPFTempError
	case spf.PermError:
		return SPFPermError
	default:
		return SPFNone
	}
}

// CheckSPF asks whether relayIP may send mail for sender's domain.
// An unparsable IP yields SPFNone without a lookup.
func CheckSPF(ctx context.Context, relayIP, sender string) (SPFResult, error) {
	ip := net.ParseIP(relayIP)
	if ip == nil {
		logging.DebugLog("SPF check: invalid IP address: %s", relayIP)
		return SPFNone, nil
	}
	if err := ctx.Err(); err != nil {
		return SPFTempError, err
	}

	type outcome struct {
		res spf.Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := spf.CheckHostWithSender(ip, senderDomain(sender), sender)
		ch <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return SPFTempError, ctx.Err()
	case o := <-ch:
		result := fromLibrary(o.res)
		if o.err != nil {
			logging.WarnLog("SPF check error for sender=%s ip=%s: %v", sender, relayIP, o.err)
			return result, o.err
		}
		logging.DebugLog("SPF check result=%s for sender=%s ip=%s", result, sender, relayIP)
		return result, nil
	}
}

// Preflight logs whether the relay is authorised for the sender. It never fails startup.
func Preflight(ctx context.Context, relayIP, sender string) SPFResult {
	result, err := CheckSPF(ctx, relayIP, sender)
	switch {
	case err != nil:
		logging.WarnLog("Mail preflight: SPF lookup failed for %s: %v", sender, err)
	case result != SPFPass:
		logging.WarnLog("Mail preflight: relay %s is not SPF-authorised for %s (result=%s)", relayIP, sender, result)
	default:
		logging.InfoLog("Mail preflight: relay %s SPF-authorised for %s", relayIP, sender)
	}
	return result
}
