package internal

// Rows returned by the reporting queries. db tags are the column aliases in
// queries.go; json tags are the response keys.

type recentPlayersRow struct {
	Count int64 `db:"jugadores_recientes"`
}

type bestKDRow struct {
	Player     string   `db:"jugador"`
	Tournament string   `db:"torneo"`
	Ratio      *float64 `db:"kd_ratio"` // nil when the player never died
}

type teamPlayersRow struct {
	Count int64 `db:"cantidad_jugadores"`
}

type TeamAchievements struct {
	Name         string `db:"nombre" json:"nombre"`
	Achievements int64  `db:"logros" json:"logros"`
}

type TeamWinPercentage struct {
	Team          string  `db:"equipo" json:"equipo"`
	WinPercentage float64 `db:"porcentaje_victorias" json:"porcentaje_victorias"`
}

type TeamTitles struct {
	Team           string `db:"equipo" json:"equipo"`
	TournamentsWon int64  `db:"torneos_ganados" json:"torneos_ganados"`
}

type TeamMembers struct {
	Team    string `db:"equipo" json:"equipo"`
	Members int64  `db:"numero_miembros" json:"numero_miembros"`
}

type MapWinPercentage struct {
	Map           string   `db:"mapa" json:"mapa"`
	WinPercentage *float64 `db:"porcentaje_victorias" json:"porcentaje_victorias"`
}

type MapUsage struct {
	Map       string `db:"mapa" json:"mapa"`
	TimesUsed int64  `db:"veces_usado" json:"veces_usado"`
}

type message struct {
	Message string `json:"message"`
}
