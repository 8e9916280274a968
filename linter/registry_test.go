package linter_test

import (
	"testing"

	"github.com/cstlint/cstlint/internal/testutils"
	"github.com/cstlint/cstlint/linter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(name, category string, aliases ...string) linter.RuleProvider {
	return testutils.Rule{Name: name, Cat: category, Legacy: aliases}.Provider()
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()

		registry := linter.NewRegistry()
		require.NoError(t, registry.Register(rule("rule-1", "style")))
		err := registry.Register(rule("rule-1", "style"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()

		err := linter.NewRegistry().Register(rule("", "style"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty id")
	})

	t.Run("nil prototype", func(t *testing.T) {
		t.Parallel()

		err := linter.NewRegistry().Register(func() linter.Visitor { return nil })
		require.Error(t, err)
	})

	t.Run("alias collides with rule", func(t *testing.T) {
		t.Parallel()

		registry := linter.NewRegistry()
		require.NoError(t, registry.Register(rule("rule-1", "style")))
		err := registry.Register(rule("rule-2", "style", "rule-1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collides")
	})

	t.Run("rule collides with alias", func(t *testing.T) {
		t.Parallel()

		registry := linter.NewRegistry()
		require.NoError(t, registry.Register(rule("rule-1", "style", "OldName")))
		err := registry.Register(rule("OldName", "style"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collides")
	})

	t.Run("must register panics", func(t *testing.T) {
		t.Parallel()

		registry := linter.NewRegistry()
		assert.Panics(t, func() {
			registry.MustRegister(rule("rule-1", "style"), rule("rule-1", "style"))
		})
	})
}

func TestRegistry_Aliases(t *testing.T) {
	t.Parallel()

	registry := testutils.NewRegistry(t, rule("range-spacing", "spacing", "SpacingAroundRangeOperator"))

	assert.Equal(t, "range-spacing", registry.Canonical("SpacingAroundRangeOperator"))
	assert.Equal(t, "unknown", registry.Canonical("unknown"))
	assert.Equal(t, map[string]string{"SpacingAroundRangeOperator": "range-spacing"}, registry.Aliases())

	r, ok := registry.GetRule("SpacingAroundRangeOperator")
	require.True(t, ok)
	assert.Equal(t, "range-spacing", r.ID())

	desc, ok := registry.Descriptor("SpacingAroundRangeOperator")
	require.True(t, ok)
	assert.Equal(t, "range-spacing", desc.ID)
}

func TestRegistry_Instance(t *testing.T) {
	t.Parallel()

	registry := standardRegistry(t)

	// Stateless rules share their prototype; others get a fresh instance.
	assert.Same(t, registry.Instance("range-spacing"), registry.Instance("range-spacing"))
	assert.NotSame(t, registry.Instance("try-catch-finally-spacing"), registry.Instance("try-catch-finally-spacing"))
	assert.Nil(t, registry.Instance("missing"))
}

func TestRegistry_RegisterRuleset(t *testing.T) {
	t.Parallel()

	t.Run("successfully register ruleset", func(t *testing.T) {
		t.Parallel()

		registry := testutils.NewRegistry(t, rule("rule-1", "style"), rule("rule-2", "style"))

		err := registry.RegisterRuleset("recommended", []string{"rule-1", "rule-2"})
		require.NoError(t, err)

		ruleIDs, exists := registry.GetRuleset("recommended")
		assert.True(t, exists)
		assert.ElementsMatch(t, []string{"rule-1", "rule-2"}, ruleIDs)
	})

	t.Run("error when rule not found", func(t *testing.T) {
		t.Parallel()

		registry := testutils.NewRegistry(t, rule("rule-1", "style"))

		err := registry.RegisterRuleset("test", []string{"rule-1", "nonexistent"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonexistent")
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("error when ruleset already registered", func(t *testing.T) {
		t.Parallel()

		registry := testutils.NewRegistry(t, rule("rule-1", "style"))

		require.NoError(t, registry.RegisterRuleset("test", []string{"rule-1"}))
		err := registry.RegisterRuleset("test", []string{"rule-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("all is reserved", func(t *testing.T) {
		t.Parallel()

		registry := testutils.NewRegistry(t, rule("rule-1", "style"))
		require.Error(t, registry.RegisterRuleset("all", []string{"rule-1"}))
	})
}

func TestRegistry_AllCategories(t *testing.T) {
	t.Parallel()

	registry := testutils.NewRegistry(t,
		rule("rule-1", "wrapping"),
		rule("rule-2", "spacing"),
		rule("rule-3", "wrapping"),
	)

	assert.Equal(t, []string{"spacing", "wrapping"}, registry.AllCategories())
}

func TestRegistry_AllRulesets(t *testing.T) {
	t.Parallel()

	registry := testutils.NewRegistry(t, rule("rule-1", "style"))
	require.NoError(t, registry.RegisterRuleset("standard", []string{"rule-1"}))
	require.NoError(t, registry.RegisterRuleset("experimental", []string{"rule-1"}))

	assert.Equal(t, []string{"all", "experimental", "standard"}, registry.AllRulesets())
}

func TestRegistry_RulesetsContaining(t *testing.T) {
	t.Parallel()

	registry := testutils.NewRegistry(t, rule("rule-1", "style"), rule("rule-2", "style"))
	require.NoError(t, registry.RegisterRuleset("standard", []string{"rule-1", "rule-2"}))
	require.NoError(t, registry.RegisterRuleset("experimental", []string{"rule-2"}))

	assert.ElementsMatch(t, []string{"all", "standard"}, registry.RulesetsContaining("rule-1"))
	assert.ElementsMatch(t, []string{"all", "standard", "experimental"}, registry.RulesetsContaining("rule-2"))
}

func TestRegistry_Order(t *testing.T) {
	t.Parallel()

	registry := testutils.NewRegistry(t, rule("zeta", "style"), rule("alpha", "style"))

	assert.Equal(t, []string{"zeta", "alpha"}, registry.RegistrationOrder())
	assert.Equal(t, []string{"alpha", "zeta"}, registry.AllRuleIDs())

	rules := registry.AllRules()
	require.Len(t, rules, 2)
	assert.Equal(t, "alpha", rules[0].ID())
}

func TestRegistry_UnknownReturnsFalse(t *testing.T) {
	t.Parallel()

	registry := linter.NewRegistry()

	_, ok := registry.GetRuleset("nonexistent")
	assert.False(t, ok)
	_, ok = registry.GetRule("nonexistent")
	assert.False(t, ok)
	_, ok = registry.Descriptor("nonexistent")
	assert.False(t, ok)

	all, ok := registry.GetRuleset("all")
	assert.True(t, ok)
	assert.Empty(t, all)
}
