package lightsim

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "lightsim")
