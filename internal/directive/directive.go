// Package directive parses the textual policy grammar attached to tool
// registrations, one directive per line:
//
//	cache 2s
//	retry 2 100ms
//	timeout 200ms
//	throttle 3/s
//	queue 1
//	validate name required
//	validate age min 18
//	deprecated use lookupV2 instead
//
// Throttle rates accept N/s, N/m, N/h or "N per <duration>".
package directive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beamkit/beam/policy"
)

// Parse builds a policy spec from directive text. Blank lines are skipped;
// an unrecognized directive or malformed argument is an error. A leading "@"
// on a directive keyword is tolerated.
func Parse(text string) (*policy.Spec, error) {
	spec := &policy.Spec{}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parseLine(spec, line); err != nil {
			return nil, fmt.Errorf("directive: line %d: %w", i+1, err)
		}
	}
	return spec, nil
}

func parseLine(spec *policy.Spec, line string) error {
	fields := strings.Fields(line)
	keyword := strings.TrimPrefix(fields[0], "@")
	args := fields[1:]

	switch keyword {
	case "cache":
		if len(args) != 1 {
			return fmt.Errorf("cache wants a duration, got %q", line)
		}
		ttl, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("cache duration: %w", err)
		}
		spec.Cache = &policy.CachePolicy{TTL: ttl}

	case "retry":
		if len(args) != 2 {
			return fmt.Errorf("retry wants attempts and delay, got %q", line)
		}
		attempts, err := strconv.Atoi(args[0])
		if err != nil || attempts < 1 {
			return fmt.Errorf("retry attempts: %q", args[0])
		}
		delay, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("retry delay: %w", err)
		}
		spec.Retry = &policy.RetryPolicy{MaxAttempts: attempts, Delay: delay}

	case "timeout":
		if len(args) != 1 {
			return fmt.Errorf("timeout wants a duration, got %q", line)
		}
		limit, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("timeout duration: %w", err)
		}
		spec.Timeout = &policy.TimeoutPolicy{Limit: limit}

	case "throttle":
		t, err := parseRate(args)
		if err != nil {
			return err
		}
		spec.Throttle = t

	case "queue":
		if len(args) != 1 {
			return fmt.Errorf("queue wants a concurrency limit, got %q", line)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("queue concurrency: %q", args[0])
		}
		spec.Queue = &policy.QueuePolicy{MaxConcurrent: n}

	case "validate":
		c, err := parseConstraint(args)
		if err != nil {
			return err
		}
		spec.Validations = append(spec.Validations, c)

	case "deprecated":
		if len(args) == 0 {
			return fmt.Errorf("deprecated wants a message")
		}
		spec.Deprecated = strings.Join(args, " ")

	default:
		return fmt.Errorf("unknown directive %q", keyword)
	}
	return nil
}

// parseRate accepts "3/s", "10/m", "100/h" and "3 per 2s".
func parseRate(args []string) (*policy.ThrottlePolicy, error) {
	switch len(args) {
	case 1:
		count, unit, ok := strings.Cut(args[0], "/")
		if !ok {
			return nil, fmt.Errorf("throttle rate %q, want N/s, N/m or N/h", args[0])
		}
		n, err := strconv.Atoi(count)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("throttle count: %q", count)
		}
		var window time.Duration
		switch unit {
		case "s":
			window = time.Second
		case "m":
			window = time.Minute
		case "h":
			window = time.Hour
		default:
			return nil, fmt.Errorf("throttle window unit %q, want s, m or h", unit)
		}
		return &policy.ThrottlePolicy{MaxCalls: n, Window: window}, nil

	case 3:
		if args[1] != "per" {
			return nil, fmt.Errorf("throttle wants N per <duration>, got %q", strings.Join(args, " "))
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("throttle count: %q", args[0])
		}
		window, err := time.ParseDuration(args[2])
		if err != nil {
			return nil, fmt.Errorf("throttle window: %w", err)
		}
		return &policy.ThrottlePolicy{MaxCalls: n, Window: window}, nil

	default:
		return nil, fmt.Errorf("throttle wants a rate")
	}
}

// parseConstraint accepts "<field> required", "<field> nonempty",
// "<field> min <n>" and "<field> max <n>".
func parseConstraint(args []string) (policy.Constraint, error) {
	if len(args) < 2 {
		return policy.Constraint{}, fmt.Errorf("validate wants a field and a rule")
	}
	field, rule := args[0], args[1]

	switch rule {
	case "required":
		return policy.Required(field), nil
	case "nonempty":
		return policy.NonEmpty(field), nil
	case "min", "max":
		if len(args) != 3 {
			return policy.Constraint{}, fmt.Errorf("validate %s wants a bound", rule)
		}
		bound, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return policy.Constraint{}, fmt.Errorf("validate %s bound: %q", rule, args[2])
		}
		if rule == "min" {
			return policy.Min(field, bound), nil
		}
		return policy.Max(field, bound), nil
	default:
		return policy.Constraint{}, fmt.Errorf("unknown validation rule %q", rule)
	}
}
