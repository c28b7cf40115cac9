package main

import (
	"os"

	"github.com/codeinsight-dev/codeinsight/cmd"
	"github.com/codeinsight-dev/codeinsight/pkg/utils"
)

func main() {
	logger := utils.GetLogger()
	// Defer closing the logger to ensure all buffered logs are written
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Logf("Application error: %v", err)
		os.Exit(1)
	}
}
