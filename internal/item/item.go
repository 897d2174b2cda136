// Package item defines the logged meal and workout entries and their ULID
// identifiers.
package item

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind distinguishes meals, which add calories, from workouts, which burn them.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindMeal, KindWorkout}

// ParseKind maps user input (singular or plural, any case) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meal", "meals":
		return KindMeal, nil
	case "workout", "workouts":
		return KindWorkout, nil
	}
	return "", fmt.Errorf("unknown item kind %q", s)
}

// Plural returns the collection name used in routes and headings.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Sign is +1 for meals and -1 for workouts: the direction an item moves the total.
func (k Kind) Sign() int {
	if k == KindWorkout {
		return -1
	}
	return 1
}

// Item is a meal or a workout. Items are immutable once created.
type Item struct {
	// ID is a ULID generated at creation
	ID string `json:"id"`

	Kind Kind   `json:"kind"`
	Name string `json:"name"`

	// Calories is accepted as given; negative values are not rejected
	Calories int `json:"calories"`

	// CreatedAt is the Unix timestamp when the item was created
	CreatedAt int64 `json:"created_at"`
}

// Contribution is the signed amount this item adds to the running total.
func (it Item) Contribution() int {
	return it.Kind.Sign() * it.Calories
}

// New creates an item with a fresh ID and the current time.
func New(kind Kind, name string, calories int) (Item, error) {
	id, err := NewID()
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:        id,
		Kind:      kind,
		Name:      strings.TrimSpace(name),
		Calories:  calories,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// NewMeal is shorthand for New(KindMeal, ...).
func NewMeal(name string, calories int) (Item, error) {
	return New(KindMeal, name, calories)
}

// NewWorkout is shorthand for New(KindWorkout, ...).
func NewWorkout(name string, calories int) (Item, error) {
	return New(KindWorkout, name, calories)
}

// NewID generates a new ULID.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Sum returns the sum of calories over items, ignoring kind.
func Sum(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Calories
	}
	return total
}
