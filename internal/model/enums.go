// internal/model/enums.go
package model

// SuggestionCategory is the kind of improvement a suggestion proposes.
type SuggestionCategory string

const (
	CategoryBugFix        SuggestionCategory = "bug_fix"
	CategoryFeature       SuggestionCategory = "feature"
	CategoryImprovement   SuggestionCategory = "improvement"
	CategoryRefactor      SuggestionCategory = "refactor"
	CategoryDocumentation SuggestionCategory = "documentation"
	CategoryTesting       SuggestionCategory = "testing"
)

func (c SuggestionCategory) Valid() bool {
	switch c {
	case CategoryBugFix, CategoryFeature, CategoryImprovement, CategoryRefactor, CategoryDocumentation, CategoryTesting:
		return true
	}
	return false
}

// Priority of a suggestion.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Difficulty of a suggestion.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// StoryType is the narrative category of a story.
type StoryType string

const (
	StoryDebugging StoryType = "debugging"
	StoryFeature   StoryType = "feature"
	StoryRefactor  StoryType = "refactor"
	StoryLearning  StoryType = "learning"
)

func (t StoryType) Valid() bool {
	switch t {
	case StoryDebugging, StoryFeature, StoryRefactor, StoryLearning:
		return true
	}
	return false
}
