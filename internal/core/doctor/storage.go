package doctor

import (
	"context"
	"fmt"
)

// PointCounter reports how many points are stored.
type PointCounter interface {
	Count(ctx context.Context) (int, error)
}

// StorageCheck verifies the point database answers queries and is not empty.
type StorageCheck struct {
	points PointCounter
	schema func(ctx context.Context) (int, error)
}

func NewStorageCheck(points PointCounter) *StorageCheck {
	return &StorageCheck{points: points}
}

// WithSchema also reports the applied schema version.
func (c *StorageCheck) WithSchema(version func(ctx context.Context) (int, error)) *StorageCheck {
	c.schema = version
	return c
}

func (c *StorageCheck) Name() string {
	return "Database"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	n, err := c.points.Count(ctx)
	switch {
	case err != nil:
		result.add("points", StatusFail, fmt.Sprintf("query failed: %v", err))
	case n == 0:
		result.add("points", StatusWarn, "no points, run 'mappicker points import'")
	default:
		result.add("points", StatusPass, fmt.Sprintf("%d stored", n))
	}

	if c.schema != nil {
		if v, err := c.schema(ctx); err != nil {
			result.add("schema", StatusFail, fmt.Sprintf("unreadable: %v", err))
		} else {
			result.add("schema", StatusPass, fmt.Sprintf("version %d", v))
		}
	}

	return result
}
