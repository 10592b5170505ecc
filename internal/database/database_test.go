package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/killallgit/blog-discovery-api/internal/models"
	"github.com/killallgit/blog-discovery-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.DatabaseConfig
		checkResult func(*testing.T, *DB)
	}{
		{
			name: "in-memory database",
			cfg:  config.DatabaseConfig{Path: ":memory:"},
			checkResult: func(t *testing.T, conn *DB) {
				sqlDB, err := conn.DB.DB()
				require.NoError(t, err)
				assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
			},
		},
		{
			name: "empty path creates in-memory database",
			cfg:  config.DatabaseConfig{Path: ""},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NotNil(t, conn.DB)
			},
		},
		{
			name: "file database in nested directory",
			cfg: config.DatabaseConfig{
				Path:                  filepath.Join(t.TempDir(), "nested", "discovery.db"),
				MaxConnections:        4,
				MaxIdleConnections:    2,
				ConnectionMaxLifetime: time.Minute,
			},
			checkResult: func(t *testing.T, conn *DB) {
				sqlDB, err := conn.DB.DB()
				require.NoError(t, err)
				assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NoError(t, conn.HealthCheck())
			if tt.checkResult != nil {
				tt.checkResult(t, conn)
			}
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func() *DB
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func() *DB {
				conn, _ := Initialize(config.DatabaseConfig{Path: ":memory:"})
				return conn
			},
		},
		{
			name: "closed connection",
			setupConn: func() *DB {
				conn, _ := Initialize(config.DatabaseConfig{Path: ":memory:"})
				_ = conn.Close()
				return conn
			},
			wantErr: true,
		},
		{
			name:      "nil connection",
			setupConn: func() *DB { return nil },
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := tt.setupConn()
			err := conn.HealthCheck()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				_ = conn.Close()
			}
		})
	}
}

func TestDB_AutoMigrate(t *testing.T) {
	conn, err := Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.AutoMigrate(models.All()...))

	tables, err := conn.Tables()
	require.NoError(t, err)
	assert.Equal(t, []string{"authors", "content_tags", "contents"}, tables)
}

func TestDB_MemoryDatabaseSurvivesConcurrentUse(t *testing.T) {
	conn, err := Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.AutoMigrate(models.All()...))

	require.NoError(t, conn.Create(&models.Author{Name: "Ada", Handle: "ada"}).Error)

	done := make(chan int64, 4)
	for i := 0; i < 4; i++ {
		go func() {
			var n int64
			conn.Model(&models.Author{}).Count(&n)
			done <- n
		}()
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, int64(1), <-done)
	}
}

func TestDB_Transaction(t *testing.T) {
	conn, err := Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.AutoMigrate(models.All()...))

	err = conn.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Author{Name: "Grace", Handle: "grace"}).Error; err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	assert.Error(t, err)

	var count int64
	conn.DB.Model(&models.Author{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
