package clash

// DefaultBaseURL is the official Clash of Clans API.
const DefaultBaseURL = "https://api.clashofclans.com/v1"

// Clan and member types

type Clan struct {
	Tag                   string        `json:"tag"`
	Name                  string        `json:"name"`
	Type                  string        `json:"type"`
	Description           string        `json:"description"`
	Location              *Location     `json:"location,omitempty"`
	BadgeURLs             BadgeURLs     `json:"badgeUrls"`
	ClanLevel             int           `json:"clanLevel"`
	ClanPoints            int           `json:"clanPoints"`
	ClanBuilderBasePoints int           `json:"clanBuilderBasePoints"`
	ClanCapitalPoints     int           `json:"clanCapitalPoints"`
	RequiredTrophies      int           `json:"requiredTrophies"`
	RequiredTownhallLevel int           `json:"requiredTownhallLevel"`
	WarFrequency          string        `json:"warFrequency"`
	WarWinStreak          int           `json:"warWinStreak"`
	WarWins               int           `json:"warWins"`
	WarTies               int           `json:"warTies"`
	WarLosses             int           `json:"warLosses"`
	IsWarLogPublic        bool          `json:"isWarLogPublic"`
	WarLeague             *League       `json:"warLeague,omitempty"`
	Members               int           `json:"members"`
	MemberList            []ClanMember  `json:"memberList,omitempty"`
	Labels                []Label       `json:"labels,omitempty"`
	ChatLanguage          *ChatLanguage `json:"chatLanguage,omitempty"`
}

type ClanMember struct {
	Tag                 string  `json:"tag"`
	Name                string  `json:"name"`
	Role                string  `json:"role"`
	TownHallLevel       int     `json:"townHallLevel"`
	ExpLevel            int     `json:"expLevel"`
	League              *League `json:"league,omitempty"`
	Trophies            int     `json:"trophies"`
	BuilderBaseTrophies int     `json:"builderBaseTrophies"`
	ClanRank            int     `json:"clanRank"`
	PreviousClanRank    int     `json:"previousClanRank"`
	Donations           int     `json:"donations"`
	DonationsReceived   int     `json:"donationsReceived"`
}

// ClanMemberList is the paged response of the members endpoint.
type ClanMemberList struct {
	Items []ClanMember `json:"items"`
}

type Location struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IsCountry   bool   `json:"isCountry"`
	CountryCode string `json:"countryCode,omitempty"`
}

type BadgeURLs struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type League struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	IconURLs IconURLs `json:"iconUrls"`
}

type IconURLs struct {
	Tiny   string `json:"tiny,omitempty"`
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
}

type Label struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ChatLanguage struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode"`
}

// Player types

type Player struct {
	Tag                      string      `json:"tag"`
	Name                     string      `json:"name"`
	TownHallLevel            int         `json:"townHallLevel"`
	TownHallWeaponLevel      int         `json:"townHallWeaponLevel,omitempty"`
	ExpLevel                 int         `json:"expLevel"`
	Trophies                 int         `json:"trophies"`
	BestTrophies             int         `json:"bestTrophies"`
	WarStars                 int         `json:"warStars"`
	AttackWins               int         `json:"attackWins"`
	DefenseWins              int         `json:"defenseWins"`
	BuilderHallLevel         int         `json:"builderHallLevel,omitempty"`
	BuilderBaseTrophies      int         `json:"builderBaseTrophies"`
	Role                     string      `json:"role,omitempty"`
	WarPreference            string      `json:"warPreference,omitempty"`
	Donations                int         `json:"donations"`
	DonationsReceived        int         `json:"donationsReceived"`
	ClanCapitalContributions int         `json:"clanCapitalContributions"`
	Clan                     *PlayerClan `json:"clan,omitempty"`
	League                   *League     `json:"league,omitempty"`
	Heroes                   []Unit      `json:"heroes,omitempty"`
	Troops                   []Unit      `json:"troops,omitempty"`
	Spells                   []Unit      `json:"spells,omitempty"`
	Labels                   []Label     `json:"labels,omitempty"`
}

type PlayerClan struct {
	Tag       string    `json:"tag"`
	Name      string    `json:"name"`
	ClanLevel int       `json:"clanLevel"`
	BadgeURLs BadgeURLs `json:"badgeUrls"`
}

// Unit is a hero, troop or spell with its upgrade level.
type Unit struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
	Village  string `json:"village"`
}

// War types

// War states reported by the current war endpoint.
const (
	WarStateNotInWar    = "notInWar"
	WarStatePreparation = "preparation"
	WarStateInWar       = "inWar"
	WarStateEnded       = "warEnded"
)

type War struct {
	State                string  `json:"state"`
	TeamSize             int     `json:"teamSize"`
	AttacksPerMember     int     `json:"attacksPerMember"`
	PreparationStartTime string  `json:"preparationStartTime"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	Clan                 WarClan `json:"clan"`
	Opponent             WarClan `json:"opponent"`
}

type WarClan struct {
	Tag                   string      `json:"tag"`
	Name                  string      `json:"name"`
	BadgeURLs             BadgeURLs   `json:"badgeUrls"`
	ClanLevel             int         `json:"clanLevel"`
	Attacks               int         `json:"attacks"`
	Stars                 int         `json:"stars"`
	DestructionPercentage float64     `json:"destructionPercentage"`
	Members               []WarMember `json:"members,omitempty"`
}

type WarMember struct {
	Tag           string      `json:"tag"`
	Name          string      `json:"name"`
	TownhallLevel int         `json:"townhallLevel"`
	MapPosition   int         `json:"mapPosition"`
	Attacks       []WarAttack `json:"attacks,omitempty"`
}

type WarAttack struct {
	AttackerTag           string `json:"attackerTag"`
	DefenderTag           string `json:"defenderTag"`
	Stars                 int    `json:"stars"`
	DestructionPercentage int    `json:"destructionPercentage"`
	Order                 int    `json:"order"`
	Duration              int    `json:"duration"`
}

// ClientError is the JSON body the API returns for non-2xx responses.
type ClientError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
