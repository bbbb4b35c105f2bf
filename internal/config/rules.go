package config

import (
	"fmt"

	"github.com/biocore/locuspick/internal/scoring"
)

// ParseRuleSet decodes one of scoring rule maps ("scoring.requirements",
// "scoring.as_requirements", "scoring.scoring") from the shape viper produces for a
// YAML map of metric name to rule spec:
//
//	<metric>:
//	  operator: "<="|">="|"="|"!="|"<"|">"|"in"|"not_in"
//	  value: <number>            # or values: [...] for in/not_in
//	  rescaling: "max"|"min"|"target"
//	  target: <number>           # only meaningful for rescaling: target
//	  multiplier: <number>
//
// A metric entry may declare a filter clause, a rescaling clause, or both.
func ParseRuleSet(raw map[string]any) (scoring.RuleSet, error) {
	var rs scoring.RuleSet
	for metric, v := range raw {
		entry, ok := v.(map[string]any)
		if !ok {
			return rs, &InvalidConfigurationError{Field: metric, Reason: "rule entry must be a mapping"}
		}

		if op, ok := entry["operator"]; ok {
			filter, err := parseFilter(metric, op, entry)
			if err != nil {
				return rs, err
			}
			rs.Filters = append(rs.Filters, filter)
		}

		if kindRaw, ok := entry["rescaling"]; ok {
			rescale, err := parseRescale(metric, kindRaw, entry)
			if err != nil {
				return rs, err
			}
			rs.Rescalers = append(rs.Rescalers, rescale)
		}
	}
	return rs, nil
}

func parseFilter(metric string, opRaw any, entry map[string]any) (scoring.FilterRule, error) {
	op, ok := opRaw.(string)
	if !ok {
		return scoring.FilterRule{}, &InvalidConfigurationError{Field: metric, Reason: "operator must be a string"}
	}
	f := scoring.FilterRule{Metric: metric, Operator: scoring.Operator(op)}
	switch f.Operator {
	case scoring.OpIn, scoring.OpNotIn:
		values, ok := entry["values"].([]any)
		if !ok {
			return scoring.FilterRule{}, &InvalidConfigurationError{Field: metric, Reason: "in/not_in requires \"values\""}
		}
		for _, raw := range values {
			n, err := toFloat(raw)
			if err != nil {
				return scoring.FilterRule{}, &InvalidConfigurationError{Field: metric, Reason: err.Error()}
			}
			f.Set = append(f.Set, n)
		}
	default:
		n, err := toFloat(entry["value"])
		if err != nil {
			return scoring.FilterRule{}, &InvalidConfigurationError{Field: metric, Reason: err.Error()}
		}
		f.Value = n
	}
	return f, nil
}

func parseRescale(metric string, kindRaw any, entry map[string]any) (scoring.RescaleRule, error) {
	kind, ok := kindRaw.(string)
	if !ok {
		return scoring.RescaleRule{}, &InvalidConfigurationError{Field: metric, Reason: "rescaling must be a string"}
	}
	r := scoring.RescaleRule{Metric: metric, Kind: scoring.RescaleKind(kind)}

	mult, err := toFloat(entry["multiplier"])
	if err != nil {
		return scoring.RescaleRule{}, &InvalidConfigurationError{Field: metric, Reason: "multiplier: " + err.Error()}
	}
	r.Multiplier = mult

	if r.Kind == scoring.RescaleTarget {
		target, err := toFloat(entry["target"])
		if err != nil {
			return scoring.RescaleRule{}, &InvalidConfigurationError{Field: metric, Reason: "rescaling target requires \"target\": " + err.Error()}
		}
		r.Target = target
	}
	return r, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
