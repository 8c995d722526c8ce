package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quantsim-lab/quantsim/internal/types"
	"github.com/quantsim-lab/quantsim/pkg/errors"
)

type RegistryTestSuite struct {
	suite.Suite
	registry IndicatorRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewIndicatorRegistry()
}

func (suite *RegistryTestSuite) TestRegisterAndGet() {
	suite.Require().NoError(suite.registry.RegisterIndicator(NewRSI()))

	got, err := suite.registry.GetIndicator(types.IndicatorTypeRSI)
	suite.Require().NoError(err)
	suite.Equal(types.IndicatorTypeRSI, got.Name())
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	suite.Require().NoError(suite.registry.RegisterIndicator(NewMA()))

	err := suite.registry.RegisterIndicator(NewMA())
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorAlreadyExists))
}

func (suite *RegistryTestSuite) TestGetMissing() {
	_, err := suite.registry.GetIndicator(types.IndicatorTypeMACD)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestRemove() {
	suite.Require().NoError(suite.registry.RegisterIndicator(NewATR()))
	suite.Require().NoError(suite.registry.RemoveIndicator(types.IndicatorTypeATR))

	err := suite.registry.RemoveIndicator(types.IndicatorTypeATR)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestDefaultRegistry() {
	registry := NewDefaultRegistry()
	names := registry.ListIndicators()
	suite.Len(names, 7)

	for _, name := range []types.IndicatorType{
		types.IndicatorTypeSMA,
		types.IndicatorTypeEMA,
		types.IndicatorTypeRSI,
		types.IndicatorTypeMACD,
		types.IndicatorTypeBollingerBands,
		types.IndicatorTypeStochastic,
		types.IndicatorTypeATR,
	} {
		_, err := registry.GetIndicator(name)
		suite.NoError(err)
	}
}
