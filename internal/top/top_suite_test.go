package top_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTopScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Spin top scenarios")
}
