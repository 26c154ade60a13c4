package feed

type localized struct {
	Default string `json:"default"`
}

type wireTeam struct {
	ID     int    `json:"id"`
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
	Record string `json:"record"`
}

type periodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

type wireClock struct {
	TimeRemaining    string `json:"timeRemaining"`
	SecondsRemaining int    `json:"secondsRemaining"`
	Running          bool   `json:"running"`
	InIntermission   bool   `json:"inIntermission"`
}

type seriesStatus struct {
	TopSeedTeamAbbrev    string `json:"topSeedTeamAbbrev"`
	TopSeedWins          int    `json:"topSeedWins"`
	BottomSeedTeamAbbrev string `json:"bottomSeedTeamAbbrev"`
	BottomSeedWins       int    `json:"bottomSeedWins"`
	NeededToWin          int    `json:"neededToWin"`
}

type scoreboardResponse struct {
	FocusedDate string        `json:"focusedDate"`
	GamesByDate []gamesOnDate `json:"gamesByDate"`
}

type gamesOnDate struct {
	Date  string           `json:"date"`
	Games []scoreboardGame `json:"games"`
}

type scoreboardGame struct {
	ID                int               `json:"id"`
	GameType          int               `json:"gameType"`
	GameState         string            `json:"gameState"`
	GameScheduleState string            `json:"gameScheduleState"`
	StartTimeUTC      string            `json:"startTimeUTC"`
	AwayTeam          wireTeam          `json:"awayTeam"`
	HomeTeam          wireTeam          `json:"homeTeam"`
	Period            int               `json:"period"`
	PeriodDescriptor  *periodDescriptor `json:"periodDescriptor"`
	SeriesStatus      *seriesStatus     `json:"seriesStatus"`
}

type playByPlayResponse struct {
	ID                int              `json:"id"`
	GameType          int              `json:"gameType"`
	GameState         string           `json:"gameState"`
	GameScheduleState string           `json:"gameScheduleState"`
	StartTimeUTC      string           `json:"startTimeUTC"`
	AwayTeam          wireTeam         `json:"awayTeam"`
	HomeTeam          wireTeam         `json:"homeTeam"`
	PeriodDescriptor  periodDescriptor `json:"periodDescriptor"`
	Clock             wireClock        `json:"clock"`
	Plays             []wirePlay       `json:"plays"`
	RosterSpots       []rosterSpot     `json:"rosterSpots"`
	SeriesStatus      *seriesStatus    `json:"seriesStatus"`
}

type wirePlay struct {
	EventID          int              `json:"eventId"`
	PeriodDescriptor periodDescriptor `json:"periodDescriptor"`
	TimeInPeriod     string           `json:"timeInPeriod"`
	SituationCode    string           `json:"situationCode"`
	TypeDescKey      string           `json:"typeDescKey"`
	Details          *playDetails     `json:"details"`
}

type playDetails struct {
	EventOwnerTeamID   int    `json:"eventOwnerTeamId"`
	ScoringPlayerID    int    `json:"scoringPlayerId"`
	ScoringPlayerTotal int    `json:"scoringPlayerTotal"`
	Assist1PlayerID    int    `json:"assist1PlayerId"`
	Assist1PlayerTotal int    `json:"assist1PlayerTotal"`
	Assist2PlayerID    int    `json:"assist2PlayerId"`
	Assist2PlayerTotal int    `json:"assist2PlayerTotal"`
	ShootingPlayerID   int    `json:"shootingPlayerId"`
	ShotType           string `json:"shotType"`
	AwayScore          int    `json:"awayScore"`
	HomeScore          int    `json:"homeScore"`
	HighlightClip      int64  `json:"highlightClip"`
}

type rosterSpot struct {
	TeamID        int       `json:"teamId"`
	PlayerID      int       `json:"playerId"`
	FirstName     localized `json:"firstName"`
	LastName      localized `json:"lastName"`
	SweaterNumber int       `json:"sweaterNumber"`
}

type boxscoreResponse struct {
	GameVideo struct {
		ThreeMinRecap int64 `json:"threeMinRecap"`
	} `json:"gameVideo"`
}
