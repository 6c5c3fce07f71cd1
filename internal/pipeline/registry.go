package pipeline

import "github.com/pmxlabs/venuelink/internal/domain"

// ForTopic builds the pipeline responsible for a topic. Topics without a
// dedicated pipeline fall back to the universal one; unknown gets no pipeline
// at all.
func ForTopic(topic domain.Topic, deps Deps) Pipeline {
	switch topic {
	case domain.TopicSports:
		return NewSports(deps)
	case domain.TopicRates:
		return NewRates(deps)
	case domain.TopicMacro:
		return NewMacro(deps)
	case domain.TopicGeopolitics:
		return NewGeopolitics(deps)
	case domain.TopicElections, domain.TopicCommodities,
		domain.TopicCryptoDaily, domain.TopicCryptoIntraday:
		return NewUniversal(topic, deps)
	default:
		return nil
	}
}

// AllTopics lists the topics a full run iterates, in a fixed order so run
// output stays deterministic.
func AllTopics() []domain.Topic {
	return []domain.Topic{
		domain.TopicSports,
		domain.TopicRates,
		domain.TopicMacro,
		domain.TopicGeopolitics,
		domain.TopicElections,
		domain.TopicCommodities,
		domain.TopicCryptoDaily,
		domain.TopicCryptoIntraday,
	}
}
