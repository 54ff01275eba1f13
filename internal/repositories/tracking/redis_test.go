package tracking

import (
	"context"
	"testing"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newConfig(guildID, clanTag string) *models.TrackingConfig {
	return &models.TrackingConfig{
		GuildID: guildID,
		ClanTag: clanTag,
		Sinks: map[models.SinkType]*models.SinkConfig{
			models.SinkTypeDonation: {ChannelID: "donations", Color: 0x00ff00},
			models.SinkTypeBoard:    {ChannelID: "board", MessageID: "msg-1"},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetConfig() {
	err := s.repo.SaveConfig(s.ctx, &SaveConfigInput{Config: s.newConfig("guild-1", "#2PP")})
	s.Require().NoError(err)

	cfg, err := s.repo.GetConfig(s.ctx, &GetConfigInput{GuildID: "guild-1", ClanTag: "#2PP"})
	s.Require().NoError(err)

	s.Equal("guild-1", cfg.GuildID)
	s.Equal("#2PP", cfg.ClanTag)
	s.Require().NotNil(cfg.Sink(models.SinkTypeDonation))
	s.Equal("donations", cfg.Sink(models.SinkTypeDonation).ChannelID)
	s.Equal(0x00ff00, cfg.Sink(models.SinkTypeDonation).Color)
	s.Equal("msg-1", cfg.Sink(models.SinkTypeBoard).MessageID)
	s.Nil(cfg.Sink(models.SinkTypeFeed))
}

func (s *RedisRepositoryTestSuite) TestGetMissingConfig() {
	_, err := s.repo.GetConfig(s.ctx, &GetConfigInput{GuildID: "guild-1", ClanTag: "#NOPE"})
	s.ErrorIs(err, ErrConfigNotFound)
}

func (s *RedisRepositoryTestSuite) TestListConfigs() {
	s.Require().NoError(s.repo.SaveConfig(s.ctx, &SaveConfigInput{Config: s.newConfig("guild-1", "#AAA")}))
	s.Require().NoError(s.repo.SaveConfig(s.ctx, &SaveConfigInput{Config: s.newConfig("guild-2", "#AAA")}))
	s.Require().NoError(s.repo.SaveConfig(s.ctx, &SaveConfigInput{Config: s.newConfig("guild-1", "#BBB")}))

	out, err := s.repo.ListConfigs(s.ctx)
	s.Require().NoError(err)
	s.Len(out.Configs, 3)

	s.Require().NoError(s.repo.DeleteConfig(s.ctx, &DeleteConfigInput{GuildID: "guild-1", ClanTag: "#AAA"}))

	out, err = s.repo.ListConfigs(s.ctx)
	s.Require().NoError(err)
	s.Len(out.Configs, 2)
	for _, cfg := range out.Configs {
		s.False(cfg.GuildID == "guild-1" && cfg.ClanTag == "#AAA")
	}
}

func (s *RedisRepositoryTestSuite) TestListConfigsEmpty() {
	out, err := s.repo.ListConfigs(s.ctx)
	s.Require().NoError(err)
	s.Empty(out.Configs)
}

func (s *RedisRepositoryTestSuite) TestUpdateMessageID() {
	s.Require().NoError(s.repo.SaveConfig(s.ctx, &SaveConfigInput{Config: s.newConfig("guild-1", "#2PP")}))

	err := s.repo.UpdateMessageID(s.ctx, &UpdateMessageIDInput{
		GuildID:   "guild-1",
		ClanTag:   "#2PP",
		SinkType:  models.SinkTypeBoard,
		MessageID: "msg-2",
	})
	s.Require().NoError(err)

	cfg, err := s.repo.GetConfig(s.ctx, &GetConfigInput{GuildID: "guild-1", ClanTag: "#2PP"})
	s.Require().NoError(err)
	s.Equal("msg-2", cfg.Sink(models.SinkTypeBoard).MessageID)
	s.Equal("donations", cfg.Sink(models.SinkTypeDonation).ChannelID)
}

func (s *RedisRepositoryTestSuite) TestUpdateMessageIDErrors() {
	err := s.repo.UpdateMessageID(s.ctx, &UpdateMessageIDInput{
		GuildID: "guild-1", ClanTag: "#2PP", SinkType: models.SinkTypeBoard, MessageID: "x",
	})
	s.ErrorIs(err, ErrConfigNotFound)

	s.Require().NoError(s.repo.SaveConfig(s.ctx, &SaveConfigInput{Config: s.newConfig("guild-1", "#2PP")}))
	err = s.repo.UpdateMessageID(s.ctx, &UpdateMessageIDInput{
		GuildID: "guild-1", ClanTag: "#2PP", SinkType: models.SinkTypeSummary, MessageID: "x",
	})
	s.ErrorIs(err, ErrSinkNotEnabled)
}

func (s *RedisRepositoryTestSuite) TestConnectionFailure() {
	s.mr.Close()

	_, err := s.repo.GetConfig(s.ctx, &GetConfigInput{GuildID: "guild-1", ClanTag: "#2PP"})
	s.Error(err)
	s.NotErrorIs(err, ErrConfigNotFound)
}
