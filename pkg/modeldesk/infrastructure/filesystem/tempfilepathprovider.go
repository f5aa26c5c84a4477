package filesystem

import (
	"os"
	"path/filepath"

	"kgeyst.com/modeldesk/pkg/common"
)

// ConfigKeyTempDirectory where downloaded and intermediate images go
const ConfigKeyTempDirectory = "tempDirectory"

type TempFilePathProvider struct {
	tempDirectoryPath string
}

func NewTempFilePathProvider(config *common.Config) *TempFilePathProvider {
	return &TempFilePathProvider{
		tempDirectoryPath: config.GetStringOrDefault(ConfigKeyTempDirectory, os.TempDir()),
	}
}

func (t *TempFilePathProvider) GetTempFilePath(fileName string) string {
	return filepath.Join(t.tempDirectoryPath, fileName)
}
