package assemble

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSceneSplitsRemainingTimeAcrossStills(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	images := []string{"a.jpg", "b.jpg", "c.jpg"}

	plan := PlanScene(12.0, nil, nil, images, rng)

	assert.Equal(t, 12.0, plan.TargetDuration)
	assert.Empty(t, plan.Videos)
	require.Len(t, plan.Images, 3)
	for _, slot := range plan.Images {
		assert.InDelta(t, 4.0, slot.Duration, 1e-9)
	}
}

func TestPlanSceneStillsOnlyFillUncoveredTime(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	videos := []string{"v1.mp4"}
	images := []string{"a.jpg", "b.jpg"}

	plan := PlanScene(10.0, videos, []float64{6.0}, images, rng)

	assert.Equal(t, videos, plan.Videos)
	require.Len(t, plan.Images, 2)
	for _, slot := range plan.Images {
		assert.InDelta(t, 2.0, slot.Duration, 1e-9)
	}
}

func TestPlanSceneDropsStillsWhenVideosSaturateNarration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	videos := []string{"v1.mp4", "v2.mp4"}

	plan := PlanScene(10.0, videos, []float64{6.0, 5.0}, []string{"a.jpg"}, rng)

	assert.Equal(t, videos, plan.Videos)
	assert.Empty(t, plan.Images, "stills are dropped when clips already cover the narration")
}

func TestPlanSceneExactCoverageDropsStills(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	plan := PlanScene(8.0, []string{"v.mp4"}, []float64{8.0}, []string{"a.jpg"}, rng)

	assert.Empty(t, plan.Images)
}

func TestPlanSceneNoImagesNoVideos(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	plan := PlanScene(5.0, nil, nil, nil, rng)

	assert.Empty(t, plan.Videos)
	assert.Empty(t, plan.Images)
}

func TestPlanSceneDeterministicWithSeed(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}

	a := PlanScene(20.0, nil, nil, images, rand.New(rand.NewSource(42)))
	b := PlanScene(20.0, nil, nil, images, rand.New(rand.NewSource(42)))

	assert.Equal(t, a, b, "same seed must produce the same effect and reverse choices")
}

func TestPickStaysInClosedEffectSet(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := map[Effect]bool{}
	for i := 0; i < 200; i++ {
		e := Pick(rng)
		seen[e] = true
		assert.Contains(t, allEffects, e)
	}
	// With 200 draws every effect should have shown up.
	assert.Len(t, seen, len(allEffects))
}
