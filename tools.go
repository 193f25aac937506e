//go:build tools

package resolveref

import (
	_ "github.com/maxbrunsfeld/counterfeiter/v6"
)
