package oracle

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
)

// Ensure interface compliance
var _ ports.PermissionOracle = (*PolicyOracle)(nil)

// RuleEnv is the environment a policy rule is evaluated in.
type RuleEnv struct {
	Key      string `expr:"key"`
	Platform string `expr:"platform"`
}

// maxRuleNodes bounds the size of a policy rule expression.
const maxRuleNodes = 100

const (
	ruleGranted = "granted"
	ruleRevoked = "revoked"
)

type compiledRule struct {
	when     string
	decision string
	program  *vm.Program
}

// PolicyOracle decides keys from the configured policy and the answers
// recorded earlier in the session. Revocation always wins over a grant.
type PolicyOracle struct {
	platform  *Platform
	decisions repositories.DecisionRepository
	granted   map[string]struct{}
	revoked   map[string]struct{}
	rules     []compiledRule
	logger    *slog.Logger
	detached  atomic.Bool
}

// PolicyOracleOption configures a PolicyOracle.
type PolicyOracleOption func(*PolicyOracle)

// WithOracleLogger sets the logger used for rule evaluation.
func WithOracleLogger(logger *slog.Logger) PolicyOracleOption {
	return func(o *PolicyOracle) {
		o.logger = logger
	}
}

// NewPolicyOracle compiles the policy rules. A rule that does not compile
// to a boolean expression is a configuration error.
func NewPolicyOracle(platform *Platform, policy system.PolicyConfig, decisions repositories.DecisionRepository, opts ...PolicyOracleOption) (*PolicyOracle, error) {
	o := &PolicyOracle{
		platform:  platform,
		decisions: decisions,
		granted:   toSet(policy.Granted),
		revoked:   toSet(policy.Revoked),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	for i, rule := range policy.Rules {
		program, err := expr.Compile(rule.When,
			expr.Env(RuleEnv{}),
			expr.AsBool(),
			expr.MaxNodes(maxRuleNodes))
		if err != nil {
			return nil, apperrors.NewConfigurationError(
				"policy",
				fmt.Sprintf("rule %d (%q) does not compile", i, rule.When),
				err,
			)
		}
		o.rules = append(o.rules, compiledRule{
			when:     rule.When,
			decision: rule.Decision,
			program:  program,
		})
	}

	return o, nil
}

// Status reports what is already known about key.
func (o *PolicyOracle) Status(key string) (ports.KeyStatus, error) {
	if o.detached.Load() {
		return ports.KeyStatus{}, apperrors.NewHostNotAttachedError("status", []string{key}, nil)
	}

	if !o.platform.SupportsRuntimeGrants() {
		return ports.KeyStatus{Granted: true}, nil
	}

	if _, ok := o.revoked[key]; ok {
		return ports.KeyStatus{RevokedByPolicy: true}, nil
	}

	decision, err := o.evaluateRules(key)
	if err != nil {
		return ports.KeyStatus{}, err
	}
	if decision == ruleRevoked {
		return ports.KeyStatus{RevokedByPolicy: true}, nil
	}

	if _, ok := o.granted[key]; ok || decision == ruleGranted {
		return ports.KeyStatus{Granted: true}, nil
	}

	if o.decisions != nil && o.decisions.Get(key) == repositories.DecisionGranted {
		return ports.KeyStatus{Granted: true}, nil
	}

	return ports.KeyStatus{}, nil
}

// evaluateRules runs every rule against key. A matching revoke rule wins
// over any matching grant rule.
func (o *PolicyOracle) evaluateRules(key string) (string, error) {
	env := RuleEnv{Key: key, Platform: o.platform.Version().String()}

	decision := ""
	for _, rule := range o.rules {
		out, err := expr.Run(rule.program, env)
		if err != nil {
			return "", fmt.Errorf("evaluating rule %q for %s: %w", rule.when, key, err)
		}
		matched, ok := out.(bool)
		if !ok || !matched {
			continue
		}
		o.logger.Debug("policy rule matched", "key", key, "rule", rule.when, "decision", rule.decision)
		if rule.decision == ruleRevoked {
			return ruleRevoked, nil
		}
		decision = rule.decision
	}
	return decision, nil
}

// Detach makes every later Status call fail with ErrHostNotAttached.
func (o *PolicyOracle) Detach() {
	o.detached.Store(true)
}

// Attach undoes Detach.
func (o *PolicyOracle) Attach() {
	o.detached.Store(false)
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
