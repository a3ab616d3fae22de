package personality

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors
var (
	ErrNotFound      = errors.New("personality profile not found")
	ErrAlreadyExists = errors.New("personality profile already exists for this user")
	ErrInvalidTrait  = errors.New("invalid trait value")
)

// Trait is one onboarding answer. Each trait is a three-way choice:
// a, b, or c.
type Trait string

const (
	TraitA Trait = "a"
	TraitB Trait = "b"
	TraitC Trait = "c"
)

// ParseTrait normalizes input case-insensitively before the enum lookup.
func ParseTrait(s string) (Trait, error) {
	switch Trait(strings.ToLower(s)) {
	case TraitA:
		return TraitA, nil
	case TraitB:
		return TraitB, nil
	case TraitC:
		return TraitC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTrait, s)
	}
}

// Profile holds a user's onboarding trait snapshot. The entity carries
// plaintext trait values; the crypto codec applies at the persistence
// boundary, never here.
type Profile struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Openness          string    `json:"openness"`
	SocialEnergy      string    `json:"social_energy"`
	LearningStyle     string    `json:"learning_style"`
	ActivityIntensity string    `json:"activity_intensity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Traits is the validated set of four trait answers.
type Traits struct {
	Openness          Trait
	SocialEnergy      Trait
	LearningStyle     Trait
	ActivityIntensity Trait
}

// ParseTraits validates all four answers, collecting every invalid field.
func ParseTraits(openness, socialEnergy, learningStyle, activityIntensity string) (Traits, map[string]string) {
	var t Traits
	invalid := map[string]string{}

	set := func(field, raw string, dst *Trait) {
		v, err := ParseTrait(raw)
		if err != nil {
			invalid[field] = err.Error()
			return
		}
		*dst = v
	}

	set("openness", openness, &t.Openness)
	set("social_energy", socialEnergy, &t.SocialEnergy)
	set("learning_style", learningStyle, &t.LearningStyle)
	set("activity_intensity", activityIntensity, &t.ActivityIntensity)

	if len(invalid) > 0 {
		return Traits{}, invalid
	}
	return t, nil
}
