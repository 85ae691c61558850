package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	p := NewProperty("深圳", 5000)

	assert.Equal(t, 0, p.Level)
	assert.Equal(t, 500, p.Rent)
	assert.Equal(t, 2500, p.UpgradeCost)
	assert.True(t, p.IsVacant())
	assert.Equal(t, "空地", p.LevelName())
}

func TestPropertyRentByLevel(t *testing.T) {
	tests := []struct {
		price int
		level int
		rent  int
	}{
		{5000, 0, 500},
		{5000, 1, 1500},
		{5000, 2, 3000},
		{5000, 3, 5000},
		{2000, 1, 600},
		{7777, 2, 4666},
		{1001, 0, 100},
	}

	for _, tt := range tests {
		p := NewProperty("x", tt.price)
		for i := 0; i < tt.level; i++ {
			require.True(t, p.upgrade())
		}
		assert.Equal(t, tt.rent, p.Rent, "price %d level %d", tt.price, tt.level)
	}
}

func TestPropertyUpgradeCap(t *testing.T) {
	p := NewProperty("合肥", 24000)
	for i := 0; i < MaxLevel; i++ {
		assert.True(t, p.upgrade())
	}

	assert.False(t, p.CanUpgrade())
	assert.False(t, p.upgrade())
	assert.Equal(t, MaxLevel, p.Level)
	assert.Equal(t, 24000, p.Rent)
	assert.Equal(t, "酒店", p.LevelName())
	assert.Equal(t, 12000, p.UpgradeCost, "upgrade cost does not depend on level")
}

func TestPropertyValueAndReset(t *testing.T) {
	p := NewProperty("上海", 3000)
	p.Owner = 2
	p.upgrade()
	p.upgrade()
	assert.Equal(t, 3000+2*1500, p.Value())

	p.reset()
	assert.True(t, p.IsVacant())
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, 300, p.Rent)
}
