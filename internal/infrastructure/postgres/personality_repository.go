package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/personality"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/crypto"
)

// PersonalityRepository stores trait values encrypted at rest. Encryption
// and decryption happen here, at the persistence boundary; the domain
// entity never sees ciphertext.
type PersonalityRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

var _ personality.Repository = (*PersonalityRepository)(nil)

func NewPersonalityRepository(db *DB, encryptor *crypto.Encryptor) *PersonalityRepository {
	return &PersonalityRepository{db: db, encryptor: encryptor}
}

func (r *PersonalityRepository) Create(ctx context.Context, userID int64, traits personality.Traits) (*personality.Profile, error) {
	encrypted := make([]string, 4)
	for i, v := range []personality.Trait{
		traits.Openness, traits.SocialEnergy, traits.LearningStyle, traits.ActivityIntensity,
	} {
		c, err := r.encryptor.Encrypt(string(v))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt trait: %w", err)
		}
		encrypted[i] = c
	}

	query := `
		INSERT INTO personality_profiles (user_id, openness, social_energy, learning_style, activity_intensity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, created_at, updated_at
	`

	var p personality.Profile
	err := r.db.QueryRowContext(ctx, query,
		userID, encrypted[0], encrypted[1], encrypted[2], encrypted[3],
	).Scan(&p.ID, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create personality profile: %w", err)
	}

	p.Openness = string(traits.Openness)
	p.SocialEnergy = string(traits.SocialEnergy)
	p.LearningStyle = string(traits.LearningStyle)
	p.ActivityIntensity = string(traits.ActivityIntensity)

	return &p, nil
}

func (r *PersonalityRepository) GetByUserID(ctx context.Context, userID int64) (*personality.Profile, error) {
	query := `
		SELECT id, user_id, openness, social_energy, learning_style, activity_intensity, created_at, updated_at
		FROM personality_profiles
		WHERE user_id = $1
	`

	var p personality.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Openness, &p.SocialEnergy,
		&p.LearningStyle, &p.ActivityIntensity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personality profile: %w", err)
	}

	p.Openness = r.decryptTrait(p.Openness)
	p.SocialEnergy = r.decryptTrait(p.SocialEnergy)
	p.LearningStyle = r.decryptTrait(p.LearningStyle)
	p.ActivityIntensity = r.decryptTrait(p.ActivityIntensity)

	return &p, nil
}

// decryptTrait is deliberately fail-soft: a value that cannot be decrypted
// comes back empty instead of erroring, so crypto failure detail never
// reaches clients. The failure is logged for operators.
func (r *PersonalityRepository) decryptTrait(ciphertext string) string {
	plaintext, err := r.encryptor.Decrypt(ciphertext)
	if err != nil {
		log.Printf("Failed to decrypt personality trait: %v", err)
		return ""
	}
	return plaintext
}
