// Package policy lints validated card configs with Open Policy Agent (OPA).
//
// Validation decides whether a card can be drawn at all. Policies go one
// step further and flag settings that work but are probably not what the
// author wants, or enforce house rules on top of the card's own checks.
//
// # Usage
//
//	eng, err := policy.NewEngine(logger)
//	if err != nil {
//	    return err
//	}
//	snap := card.Snapshot()
//	result, err := eng.Evaluate(ctx, &policy.Input{
//	    Config:   rawMap,
//	    Resolved: &snap,
//	    Context:  &policy.Context{Source: "card.yaml"},
//	})
//
// A violation with error severity makes result.Allowed false.
//
// # Built-in Policies
//
//  1. refresh-interval - history reloaded more than once a minute
//  2. long-period-statistics - more than 48 hours of raw history
//  3. duplicate-speed-entities - two speed bars reading the same series
//  4. deprecated-keys - deprecated keys and where they moved
//
// Built-in policies only warn or inform; they never block a card.
//
// # Custom Policies
//
// Custom policies are .rego or .json files. A Rego package must define a
// deny set whose entries are either a message or an object with message,
// field, severity and remediation keys:
//
//	# Every card needs a title.
//	# severity: error
//	package house.title
//
//	import rego.v1
//
//	deny contains violation if {
//	    not input.resolved.title
//	    violation := {"field": "title", "message": "every card needs a title"}
//	}
//
// input.config holds the raw config as written, input.resolved the
// validated model with defaults applied.
//
// # Hot Reload
//
//	loader := policy.NewLoader(logger)
//	err = loader.Watch(ctx, paths, func(policies []policy.Policy) error {
//	    return eng.ReplacePolicies(ctx, policies)
//	})
package policy
