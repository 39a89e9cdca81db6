package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	addr      string
}

func (suite *RedisIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.addr = endpoint
}

func (suite *RedisIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisIntegrationTestSuite) TestNotify_PublishesOnChannel() {
	ctx := context.Background()

	subscriber := goredis.NewClient(&goredis.Options{Addr: suite.addr})
	defer func() { _ = subscriber.Close() }()
	sub := subscriber.Subscribe(ctx, "orders")
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	suite.Require().NoError(err)

	publisher, err := notify.NewRedis(ctx, notify.RedisConfig{Addr: suite.addr, Channel: "orders"})
	suite.Require().NoError(err)
	defer func() { _ = publisher.Close() }()

	id := kernel.NewUUID()
	suite.Require().NoError(publisher.Notify(ctx, ports.OrderEvent{
		Type:       ports.OrderDeleted,
		OrderID:    id,
		OccurredAt: time.Now(),
	}))

	select {
	case msg := <-sub.Channel():
		var decoded notify.Message
		suite.Require().NoError(json.Unmarshal([]byte(msg.Payload), &decoded))
		suite.Equal("order.deleted", decoded.Type)
		suite.Equal(id.String(), decoded.OrderID)
		suite.Nil(decoded.Order)
	case <-time.After(5 * time.Second):
		suite.Fail("no message received")
	}
}

func (suite *RedisIntegrationTestSuite) TestNewRedis_FailsWithoutServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := notify.NewRedis(ctx, notify.RedisConfig{Addr: "127.0.0.1:1", Channel: "orders"})
	suite.Require().Error(err)
}

func TestRedisIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RedisIntegrationTestSuite))
}
