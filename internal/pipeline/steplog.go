package pipeline

import (
	"bytes"
	"encoding/json"
)

// Step log keys, in the order the pipeline records them. Every key that was
// recorded for a call appears in StepLog in exactly this order; keys for
// stages that did not run are simply absent.
const (
	StepDetectedScript  = "detected_script"
	StepDetectedLang    = "detected_lang"
	StepSlangNormalized = "slang_normalized"
	StepTransliteration = "transliteration"
	StepRawTranslation  = "raw_translation"
	StepGlossaryApplied = "glossary_applied"
)

// Step is a single recorded pipeline stage and its output.
type Step struct {
	Name   string
	Output string
}

// StepLog records the intermediate output of each pipeline stage in
// execution order. It is built once per translation call and is not safe
// for concurrent mutation.
type StepLog struct {
	steps []Step
	index map[string]int
}

// NewStepLog returns an empty step log.
func NewStepLog() *StepLog {
	return &StepLog{index: make(map[string]int)}
}

// Add records output under name. Recording the same name twice updates the
// value in place and keeps the original position.
func (l *StepLog) Add(name, output string) {
	if i, ok := l.index[name]; ok {
		l.steps[i].Output = output
		return
	}
	l.index[name] = len(l.steps)
	l.steps = append(l.steps, Step{Name: name, Output: output})
}

// Get returns the recorded output for name.
func (l *StepLog) Get(name string) (string, bool) {
	i, ok := l.index[name]
	if !ok {
		return "", false
	}
	return l.steps[i].Output, true
}

// Steps returns the recorded steps in execution order.
func (l *StepLog) Steps() []Step {
	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}

// Len reports how many steps have been recorded.
func (l *StepLog) Len() int { return len(l.steps) }

// MarshalJSON renders the log as a JSON object whose keys appear in
// execution order. encoding/json maps would sort keys alphabetically, which
// would scramble the stage order, so the object is built by hand.
func (l *StepLog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range l.steps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Output)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
