package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/sigset/quotick/utils/log"
)

var InstanceConfig QuotickConfig

const (
	defaultCompression      = "flate"
	defaultCompressionLevel = 3
)

// QuotickConfig holds the settings shared by every store opened by a process.
type QuotickConfig struct {
	RootDirectory       string
	LogLevel            log.Level
	SnapshotCompression string
	CompressionLevel    int
	SyncWrites          bool
}

func NewDefaultConfig(rootDir string) *QuotickConfig {
	return &QuotickConfig{
		RootDirectory:       rootDir,
		LogLevel:            log.INFO,
		SnapshotCompression: defaultCompression,
		CompressionLevel:    defaultCompressionLevel,
	}
}

func (m *QuotickConfig) Parse(data []byte) error {
	var aux struct {
		RootDirectory       string `yaml:"root_directory"`
		LogLevel            string `yaml:"log_level"`
		SnapshotCompression string `yaml:"snapshot_compression"`
		CompressionLevel    int    `yaml:"compression_level"`
		SyncWrites          string `yaml:"sync_writes"`
	}

	if err := yaml.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.RootDirectory == "" {
		log.Error("Invalid root directory.")
		return errors.New("invalid root directory")
	}
	m.RootDirectory = aux.RootDirectory

	m.LogLevel = log.INFO
	if aux.LogLevel != "" {
		m.LogLevel = log.ParseLevel(aux.LogLevel)
	}
	log.SetLevel(m.LogLevel)

	switch c := strings.ToLower(aux.SnapshotCompression); c {
	case "":
		m.SnapshotCompression = defaultCompression
	case "none", "flate", "snappy":
		m.SnapshotCompression = c
	default:
		return errors.New("invalid snapshot_compression: " + aux.SnapshotCompression)
	}

	m.CompressionLevel = defaultCompressionLevel
	if aux.CompressionLevel != 0 {
		if aux.CompressionLevel < -2 || aux.CompressionLevel > 9 {
			return errors.New("compression_level must be between -2 and 9")
		}
		m.CompressionLevel = aux.CompressionLevel
	}

	m.SyncWrites = false
	if aux.SyncWrites != "" {
		syncWrites, err := strconv.ParseBool(aux.SyncWrites)
		if err != nil {
			log.Error("Invalid value: %v for sync_writes. Disabling sync...", aux.SyncWrites)
		} else {
			m.SyncWrites = syncWrites
		}
	}

	return nil
}

// ReadConfigFile parses the YAML file at path into InstanceConfig.
func ReadConfigFile(path string) (*QuotickConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := InstanceConfig.Parse(data); err != nil {
		return nil, err
	}
	return &InstanceConfig, nil
}
