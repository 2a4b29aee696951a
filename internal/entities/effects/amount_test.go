package effects_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/roller"
	rollermock "github.com/KirkDiggler/rpg-campaign/internal/pkg/roller/mock"
)

type AmountTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockRoller *rollermock.MockRoller
}

func (s *AmountTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRoller = rollermock.NewMockRoller(s.ctrl)
}

func (s *AmountTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AmountTestSuite) TestFixedAmountIgnoresRoller() {
	amount := effects.NewFixedAmount(3)

	value, err := amount.SampleOrFixed(nil)
	s.Require().NoError(err)
	s.Equal(3.0, value)
	s.Equal(3, amount.Rounded())
	s.False(amount.IsRandom())
}

func (s *AmountTestSuite) TestZeroVarianceIsFixed() {
	amount := effects.NewRandomAmount(4, 0)

	s.False(amount.IsRandom())
	value, err := amount.SampleOrFixed(nil)
	s.Require().NoError(err)
	s.Equal(4.0, value)
}

func (s *AmountTestSuite) TestRandomAmountBounds() {
	amount := effects.NewRandomAmount(3, 1)
	s.Equal(2.0, amount.Min())
	s.Equal(4.0, amount.Max())

	low, err := amount.SampleOrFixed(roller.NewSequence(1))
	s.Require().NoError(err)
	s.Equal(2.0, low)

	high, err := amount.SampleOrFixed(roller.NewSequence(10000))
	s.Require().NoError(err)
	s.InDelta(4.0, high, 1e-9)
}

func (s *AmountTestSuite) TestRangeAmount() {
	amount := effects.NewRangeAmount(5, 0)

	s.True(amount.IsRandom())
	s.Equal(0.0, amount.Min())
	s.Equal(5.0, amount.Max())
}

func (s *AmountTestSuite) TestRollKeepsCurrentValue() {
	amount := effects.NewRandomAmount(3, 1)
	s.Equal(3.0, amount.Current(), "unrolled amount reads its base")

	_, err := amount.Roll(roller.NewSequence(10000))
	s.Require().NoError(err)
	s.InDelta(4.0, amount.Current(), 1e-9)
	s.Equal(4, amount.Rounded())
	s.Equal(4, amount.Rounded(), "reads between rolls are stable")
}

func (s *AmountTestSuite) TestRoundsHalfAwayFromZero() {
	testCases := []struct {
		name  string
		value float64
		want  int
	}{
		{name: "positive half", value: 2.5, want: 3},
		{name: "negative half", value: -2.5, want: -3},
		{name: "below half", value: 2.49, want: 2},
		{name: "whole", value: 7, want: 7},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, effects.NewFixedAmount(tc.value).Rounded())
		})
	}
}

func (s *AmountTestSuite) TestNilRollerIsInternalError() {
	_, err := effects.NewRandomAmount(3, 1).SampleOrFixed(nil)

	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *AmountTestSuite) TestRollerErrorIsSurfaced() {
	s.mockRoller.EXPECT().Roll(10000).Return(0, errors.Unavailable("entropy exhausted"))

	_, err := effects.NewRandomAmount(3, 1).Roll(s.mockRoller)

	s.Require().Error(err)
	s.Contains(err.Error(), "entropy exhausted")
}

func (s *AmountTestSuite) TestOutOfRangeFaceIsRejected() {
	s.mockRoller.EXPECT().Roll(10000).Return(10001, nil)

	_, err := effects.NewRandomAmount(3, 1).SampleOrFixed(s.mockRoller)

	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *AmountTestSuite) TestSamplingDistribution() {
	amount := effects.NewRandomAmount(3, 1)
	r := roller.NewSeeded(42)

	seen := map[int]int{}
	total := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		_, err := amount.Roll(r)
		s.Require().NoError(err)
		v := amount.Rounded()
		seen[v]++
		total += v
	}

	for v := range seen {
		s.Contains([]int{2, 3, 4}, v)
	}
	s.Len(seen, 3, "every integer in range should appear")
	s.InDelta(3.0, float64(total)/trials, 0.15)
}

func TestAmountSuite(t *testing.T) {
	suite.Run(t, new(AmountTestSuite))
}
