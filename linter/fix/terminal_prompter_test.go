package fix_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func located(rule string) validation.Violation {
	return validation.Violation{File: "Main.kt", Rule: rule, Line: 10, Column: 5, Message: "Unexpected spacing", Autocorrectable: true}
}

func TestTerminalPrompter_ConfirmFix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "y\n", expected: true},
		{name: "yes spelled out", input: "Yes\n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "empty answer declines", input: "\n", expected: false},
		{name: "invalid then valid", input: "maybe\ny\n", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output := &bytes.Buffer{}
			prompter := fix.NewTerminalPrompter(strings.NewReader(tt.input), output)

			ok, err := prompter.ConfirmFix(located("range-spacing"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Contains(t, output.String(), "Main.kt:10:5 range-spacing Unexpected spacing")
		})
	}
}

func TestTerminalPrompter_ConfirmFix_InvalidAnswerReprompts(t *testing.T) {
	t.Parallel()

	output := &bytes.Buffer{}
	prompter := fix.NewTerminalPrompter(strings.NewReader("maybe\nn\n"), output)

	ok, err := prompter.ConfirmFix(located("range-spacing"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, output.String(), "Invalid answer: maybe")
	assert.Equal(t, 2, strings.Count(output.String(), "Apply fix?"))
}

func TestTerminalPrompter_ConfirmFix_AllForRule(t *testing.T) {
	t.Parallel()

	prompter := fix.NewTerminalPrompter(strings.NewReader("a\nn\n"), &bytes.Buffer{})

	ok, err := prompter.ConfirmFix(located("range-spacing"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = prompter.ConfirmFix(located("range-spacing"))
	require.NoError(t, err)
	assert.True(t, ok, "remaining fixes of the rule are applied without asking")

	ok, err = prompter.ConfirmFix(located("no-multi-spaces"))
	require.NoError(t, err)
	assert.False(t, ok, "other rules are still asked")
}

func TestTerminalPrompter_ConfirmFix_Quit(t *testing.T) {
	t.Parallel()

	output := &bytes.Buffer{}
	prompter := fix.NewTerminalPrompter(strings.NewReader("q\ny\n"), output)

	ok, err := prompter.ConfirmFix(located("range-spacing"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = prompter.ConfirmFix(located("no-multi-spaces"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, strings.Count(output.String(), "Apply fix?"), "nothing is asked after quit")
}

func TestTerminalPrompter_ConfirmFix_EOF(t *testing.T) {
	t.Parallel()

	prompter := fix.NewTerminalPrompter(strings.NewReader(""), &bytes.Buffer{})

	ok, err := prompter.ConfirmFix(located("range-spacing"))
	require.Error(t, err)
	assert.False(t, ok)
}

func TestTerminalPrompter_Confirm(t *testing.T) {
	t.Parallel()

	prompter := fix.NewTerminalPrompter(strings.NewReader("y\n"), &bytes.Buffer{})
	result, err := prompter.Confirm("Write changes?")
	require.NoError(t, err)
	assert.True(t, result)

	prompter = fix.NewTerminalPrompter(strings.NewReader("n\n"), &bytes.Buffer{})
	result, err = prompter.Confirm("Write changes?")
	require.NoError(t, err)
	assert.False(t, result)
}

type scriptedPrompter struct {
	answers []bool
	asked   int
}

func (p *scriptedPrompter) ConfirmFix(validation.Violation) (bool, error) {
	ok := p.answers[p.asked]
	p.asked++
	return ok, nil
}

func TestEngine_Decide_Interactive(t *testing.T) {
	t.Parallel()

	prompter := &scriptedPrompter{answers: []bool{true, false}}
	e := fix.NewEngine(fix.Options{Mode: fix.ModeInteractive, Prompter: prompter}, nil)
	assert.True(t, e.Requested())

	ran := 0
	apply := func() error { ran++; return nil }

	d, err := e.Decide(violation("range-spacing"), apply)
	require.NoError(t, err)
	assert.Equal(t, fix.DecisionApplied, d)

	d, err = e.Decide(violation("range-spacing"), apply)
	require.NoError(t, err)
	assert.Equal(t, fix.DecisionSuppressedByPolicy, d)

	assert.Equal(t, 1, ran)
	assert.Equal(t, 2, prompter.asked)
	require.Len(t, e.Result().Skipped, 1)
	assert.Equal(t, fix.SkipUserDeclined, e.Result().Skipped[0].Reason)
}

func TestEngine_Decide_InteractiveWithoutPrompter(t *testing.T) {
	t.Parallel()

	e := fix.NewEngine(fix.Options{Mode: fix.ModeInteractive}, nil)
	d, err := e.Decide(violation("range-spacing"), func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, fix.DecisionSuppressedByPolicy, d)
}

func TestEngine_DecideAt_DeclinedFixIsNotOfferedAgain(t *testing.T) {
	t.Parallel()

	prompter := &scriptedPrompter{answers: []bool{false, false, true}}
	e := fix.NewEngine(fix.Options{Mode: fix.ModeInteractive, Prompter: prompter}, nil)
	apply := func() error { return nil }
	line := "for (i in 0 .. 3) {"

	// Two identical offers in the first round are asked about separately.
	e.StartRound()
	for range 2 {
		d, err := e.DecideAt(violation("range-spacing"), line, apply)
		require.NoError(t, err)
		assert.Equal(t, fix.DecisionSuppressedByPolicy, d)
	}

	// The next round offers them again; they stay declined without a prompt.
	e.StartRound()
	for range 2 {
		d, err := e.DecideAt(violation("range-spacing"), line, apply)
		require.NoError(t, err)
		assert.Equal(t, fix.DecisionSuppressedByPolicy, d)
	}
	assert.Equal(t, 2, prompter.asked)
	assert.Len(t, e.Result().Skipped, 2)

	// A violation on a different line is still asked about.
	d, err := e.DecideAt(violation("range-spacing"), "val r = 1 .. 2", apply)
	require.NoError(t, err)
	assert.Equal(t, fix.DecisionApplied, d)
	assert.Equal(t, 3, prompter.asked)
}

func TestEngine_DecideAt_PolicySkipRecordedOnce(t *testing.T) {
	t.Parallel()

	e := fix.NewEngine(fix.Options{Mode: fix.ModeAuto}, fix.NewPolicy("range-spacing"))
	for range 3 {
		e.StartRound()
		d, err := e.DecideAt(violation("range-spacing"), "val r = 1 .. 2", func() error { return nil })
		require.NoError(t, err)
		assert.Equal(t, fix.DecisionSuppressedByPolicy, d)
	}
	require.Len(t, e.Result().Skipped, 1)
	assert.Equal(t, fix.SkipRulePolicy, e.Result().Skipped[0].Reason)
}
