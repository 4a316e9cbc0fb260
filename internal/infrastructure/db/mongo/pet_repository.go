package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/huellitas/vetrecords/internal/core/clinical"
	"github.com/huellitas/vetrecords/internal/core/domain"
)

const collectionPets = "pets"

type PetRepository struct {
	coll *mongo.Collection
}

func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{coll: db.Collection(collectionPets)}
}

// petDocument keeps the flat history text next to the entry logs so that
// older readers of the collection keep working. The logs are authoritative.
type petDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Species   string             `bson:"species"`
	Breed     string             `bson:"breed"`
	BirthYear int                `bson:"birth_year"`
	Owner     string             `bson:"owner"`

	Veterinarian  string `bson:"veterinarian"`
	ConsultReason string `bson:"consult_reason"`
	Observations  string `bson:"observations"`

	History        *clinical.Record `bson:"clinical_history,omitempty"`
	HistoryVersion int64            `bson:"history_version"`
}

func (d petDocument) toDomain() *domain.Pet {
	pet := &domain.Pet{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Species:   d.Species,
		Breed:     d.Breed,
		BirthYear: d.BirthYear,
		Owner:     d.Owner,
	}
	if d.History != nil && (len(d.History.Veterinarian) > 0 || len(d.History.ConsultReason) > 0 || len(d.History.Observations) > 0) {
		pet.History = *d.History
	} else {
		pet.History = clinical.FromText(clinical.Text{
			Veterinarian:  d.Veterinarian,
			ConsultReason: d.ConsultReason,
			Observations:  d.Observations,
		})
	}
	return pet
}

func profileFields(p domain.PetProfile) bson.M {
	return bson.M{
		"name":       p.Name,
		"species":    p.Species,
		"breed":      p.Breed,
		"birth_year": p.BirthYear,
		"owner":      p.Owner,
	}
}

func (r *PetRepository) Create(ctx context.Context, profile domain.PetProfile) (*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := petDocument{
		Name:      profile.Name,
		Species:   profile.Species,
		Breed:     profile.Breed,
		BirthYear: profile.BirthYear,
		Owner:     profile.Owner,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert pet: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *PetRepository) FindByID(ctx context.Context, id string) (*domain.Pet, error) {
	pet, _, err := r.FindWithVersion(ctx, id)
	return pet, err
}

func (r *PetRepository) FindWithVersion(ctx context.Context, id string) (*domain.Pet, int64, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, 0, domain.ErrPetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc petDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, domain.ErrPetNotFound
		}
		return nil, 0, fmt.Errorf("find pet: %w", err)
	}
	return doc.toDomain(), doc.HistoryVersion, nil
}

// List returns pets matching filter ordered by name.
func (r *PetRepository) List(ctx context.Context, filter domain.PetFilter) ([]*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Name != "" {
		query["name"] = containsFold(filter.Name)
	}
	if filter.Species != "" {
		query["species"] = containsFold(filter.Species)
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer cur.Close(ctx)

	var docs []petDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pets: %w", err)
	}

	pets := make([]*domain.Pet, 0, len(docs))
	for _, d := range docs {
		pets = append(pets, d.toDomain())
	}
	return pets, nil
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// UpdateProfile sets only the profile fields; the history fields are left alone.
func (r *PetRepository) UpdateProfile(ctx context.Context, id string, profile domain.PetProfile) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": profileFields(profile)})
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

func (r *PetRepository) UpdateHistory(ctx context.Context, id string, rec clinical.Record, version int64) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "history_version": version}
	if version == 0 {
		// documents written before versioning have no history_version field
		filter["history_version"] = bson.M{"$in": bson.A{0, nil}}
	}

	text := rec.Text()
	update := bson.M{
		"$set": bson.M{
			"clinical_history": rec,
			"veterinarian":     text.Veterinarian,
			"consult_reason":   text.ConsultReason,
			"observations":     text.Observations,
		},
		"$inc": bson.M{"history_version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update pet history: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("check pet: %w", err)
	}
	if n == 0 {
		return domain.ErrPetNotFound
	}
	return domain.ErrConcurrentVisit
}

func (r *PetRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}
