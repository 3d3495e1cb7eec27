package probe_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wasmc/internal/adapters/kv"
	"go.trai.ch/wasmc/internal/adapters/kv/leveldb"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports/mocks"
	"go.trai.ch/wasmc/internal/engine/probe"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var errRejected = zerr.New("unsupported value type")

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, domain.LogLevelInfo)
}

func TestProber_Supported(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mocks.NewMockModuleValidator(ctrl)
	durable := mocks.NewMockDurableStore(ctrl)

	gomock.InOrder(
		validator.EXPECT().Validate(gomock.Any(), domain.MinimalModule).Return(nil),
		durable.EXPECT().Put(gomock.Any(), probe.Key, domain.MinimalModule).Return(nil),
		durable.EXPECT().Get(gomock.Any(), probe.Key).Return(append([]byte(nil), domain.MinimalModule...), nil),
		durable.EXPECT().Delete(gomock.Any(), probe.Key).Return(nil),
	)

	p := probe.New(validator, durable, true, quietLogger())
	assert.True(t, p.SupportsDurableCache(context.Background()))
}

func TestProber_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := probe.New(mocks.NewMockModuleValidator(ctrl), mocks.NewMockDurableStore(ctrl), false, quietLogger())
	assert.False(t, p.SupportsDurableCache(context.Background()))
}

func TestProber_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(v *mocks.MockModuleValidator, d *mocks.MockDurableStore)
	}{
		{
			name: "runtime rejects module",
			setup: func(v *mocks.MockModuleValidator, _ *mocks.MockDurableStore) {
				v.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(errRejected)
			},
		},
		{
			name: "put fails",
			setup: func(v *mocks.MockModuleValidator, d *mocks.MockDurableStore) {
				v.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
				d.EXPECT().Put(gomock.Any(), probe.Key, gomock.Any()).
					Return(domain.StoreError(domain.ErrStoreOpenFailed, errRejected))
			},
		},
		{
			name: "get fails",
			setup: func(v *mocks.MockModuleValidator, d *mocks.MockDurableStore) {
				v.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
				d.EXPECT().Put(gomock.Any(), probe.Key, gomock.Any()).Return(nil)
				d.EXPECT().Get(gomock.Any(), probe.Key).
					Return(nil, domain.StoreError(domain.ErrStoreReadFailed, errRejected))
			},
		},
		{
			name: "value altered",
			setup: func(v *mocks.MockModuleValidator, d *mocks.MockDurableStore) {
				v.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
				d.EXPECT().Put(gomock.Any(), probe.Key, gomock.Any()).Return(nil)
				d.EXPECT().Get(gomock.Any(), probe.Key).Return([]byte("[object Object]"), nil)
				d.EXPECT().Delete(gomock.Any(), probe.Key).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			validator := mocks.NewMockModuleValidator(ctrl)
			durable := mocks.NewMockDurableStore(ctrl)
			tt.setup(validator, durable)

			p := probe.New(validator, durable, true, quietLogger())
			assert.False(t, p.SupportsDurableCache(context.Background()))
		})
	}
}

func TestProber_MisconfiguredRedisReportsUnsupported(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mocks.NewMockModuleValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)

	durable, err := kv.Open(domain.CacheConfig{Enabled: true, Backend: domain.BackendRedis}, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	p := probe.New(validator, durable, true, quietLogger())
	assert.False(t, p.SupportsDurableCache(context.Background()))
}

func TestProber_LevelDBRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mocks.NewMockModuleValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)

	durable := leveldb.NewStore(t.TempDir(), domain.DurableStoreName, domain.DurableStoreVersion, quietLogger())
	t.Cleanup(func() { _ = durable.Close() })

	ctx := context.Background()
	p := probe.New(validator, durable, true, quietLogger())
	assert.True(t, p.SupportsDurableCache(ctx))

	_, err := durable.Get(ctx, probe.Key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
