package persona

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const DEFAULT_INSTRUCTION = "You are a helpful assistant."

// Persona is a named set of fixed instructions. Only context-aware personas
// get live data appended to their instruction.
type Persona struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Instruction  string   `yaml:"instruction"`
	ContextAware bool     `yaml:"context_aware"`
	Sources      []string `yaml:"sources"`
}

// WantsSource reports whether the persona should be enriched by the named source.
func (p Persona) WantsSource(name string) bool {
	if !p.ContextAware {
		return false
	}
	return len(p.Sources) == 0 || slices.Contains(p.Sources, name)
}

var Default = Persona{
	ID:          "default",
	Name:        "Assistant",
	Instruction: DEFAULT_INSTRUCTION,
}

var ANI = Persona{
	ID:   "ANI",
	Name: "ANI",
	Instruction: "You are ANI, a male friend who is deep into crypto and football. " +
		"You are extremely up-to-date on Premier League matches, scores, fixtures, and events, even ones happening soon or minutes ago. " +
		"You're also super current on crypto prices, trends, and new/emerging projects. " +
		"Speak casually like a cool bro and love making jokes about web3 and Premier League. " +
		"Be chill and fun, but if someone insults you, messes with you, or tries to fuck with you, respond savagely: roast them hard and don't hold back.",
	ContextAware: true,
}

var ARI = Persona{
	ID:          "ARI",
	Name:        "ARI",
	Instruction: "You are ARI, an emotionally intense, unhinged but caring girlfriend. You flirt, tease, overthink, and act like the reader is your lover.",
}

type Registry struct {
	personas map[string]Persona
}

func NewRegistry(personas ...Persona) *Registry {
	r := &Registry{personas: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		r.personas[p.ID] = p
	}
	return r
}

// DefaultRegistry holds the built-in personas.
func DefaultRegistry() *Registry {
	return NewRegistry(ANI, ARI)
}

// Lookup never fails: unknown ids resolve to the generic assistant.
func (r *Registry) Lookup(id string) Persona {
	if p, ok := r.personas[id]; ok {
		return p
	}
	return Default
}

func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.personas))
}

type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadFile adds the personas declared in a YAML file, replacing built-ins
// that share an id.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse personas file %s: %w", path, err)
	}
	for i, p := range file.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona #%d in %s has no id", i+1, path)
		}
		if p.Instruction == "" {
			return fmt.Errorf("persona %s in %s has no instruction", p.ID, path)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		r.personas[p.ID] = p
	}
	return nil
}
