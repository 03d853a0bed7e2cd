package pet

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Upsert_UpdatesInPlaceAndNeverShrinks(t *testing.T) {
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	h := EmptyHistory()

	h.Upsert(NewSummary(1, FreshStats(now), now))
	h.Upsert(NewSummary(2, FreshStats(now), now))
	require.Len(t, h.Pets, 2)
	assert.Equal(t, 2, h.CurrentPetID)

	dead := FreshStats(now)
	dead.DiedAt = At(now.Add(time.Hour)).Ptr()
	h.Upsert(NewSummary(1, dead, now))

	require.Len(t, h.Pets, 2)
	assert.Equal(t, 1, h.Pets[0].PetID, "order is by first insertion")
	assert.False(t, h.Pets[0].IsAlive)
	assert.Equal(t, int64(time.Hour/time.Millisecond), h.Pets[0].SurvivalTimeMs)
	assert.Equal(t, 2, h.CurrentPetID, "currentPetId never goes back")
}

func TestStateData_Clone_IsDeep(t *testing.T) {
	now := time.Now()
	s := FreshState(3, now)
	s.HungerTimerStart = At(now).Ptr()
	creature := "001_blue_cat"
	s.CreatureID = &creature

	c := s.Clone()
	*c.HungerTimerStart = 0
	*c.CreatureID = "other"

	assert.Equal(t, At(now), *s.HungerTimerStart)
	assert.Equal(t, "001_blue_cat", *s.CreatureID)
}

func TestStateData_JSONShape(t *testing.T) {
	s := FreshState(1, time.UnixMilli(1700000000000))

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	assert.Equal(t, "EGG", raw["state"])
	assert.Equal(t, float64(1), raw["petId"])
	assert.Nil(t, raw["hungerTimerStart"])
	assert.Contains(t, raw, "poopSicknessDeadline")
	assert.Equal(t, float64(1700000000000), raw["createdAt"])
}

func TestCheckInvariants(t *testing.T) {
	now := time.Now()

	ok := FreshState(1, now)
	require.NoError(t, ok.CheckInvariants())

	sick := FreshState(1, now)
	sick.State = StateIdle
	sick.SicknessStartTime = At(now).Ptr()
	assert.ErrorIs(t, sick.CheckInvariants(), ErrInvariant)

	both := FreshState(1, now)
	both.State = StateHungry
	both.HungerTimerStart = At(now).Ptr()
	both.HungryStartTime = At(now).Ptr()
	assert.ErrorIs(t, both.CheckInvariants(), ErrInvariant)

	dead := FreshState(1, now)
	dead.State = StateDead
	dead.PoopSicknessDeadline = At(now).Ptr()
	assert.ErrorIs(t, dead.CheckInvariants(), ErrInvariant)
}

func TestCommandRecord_Decode(t *testing.T) {
	now := time.Now()

	cmd, err := Encode(Hatch{CreatureID: "002_pink_dog", Personality: "brave"}, now, "id-1").Decode()
	require.NoError(t, err)
	assert.Equal(t, Hatch{CreatureID: "002_pink_dog", Personality: "brave"}, cmd)

	_, err = CommandRecord{Type: CommandHatch, CreatureID: "001_blue_cat"}.Decode()
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = CommandRecord{Type: "PET"}.Decode()
	assert.ErrorIs(t, err, ErrInvalidCommand)

	cmd, err = CommandRecord{Type: CommandClean}.Decode()
	require.NoError(t, err)
	assert.Equal(t, CommandClean, cmd.Type())
}
