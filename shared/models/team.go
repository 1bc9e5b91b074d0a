// shared/models/team.go
package models

// TeamOf is a club taking part in the league.
type TeamOf[K Key] struct {
	ID        K      `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name"`
	ShortName string `bson:"short_name,omitempty" json:"shortName,omitempty"`
	City      string `bson:"city,omitempty" json:"city,omitempty"`
	Owner     string `bson:"owner,omitempty" json:"owner,omitempty"`
}

// Team is a team as the league service stores it.
type Team = TeamOf[int64]

// ProviderTeam is a team read from a provider.
type ProviderTeam = TeamOf[ID]
