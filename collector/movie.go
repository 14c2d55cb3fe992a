package collector

// UnknownCast 主演缺失时的占位值
const UnknownCast = "未知"

// Movie 榜单中的一部电影
type Movie struct {
	Title       string  `db:"chinese_name" json:"title"`
	AltTitle    string  `db:"english_name" json:"alt_title"`
	URL         string  `db:"movie_url" json:"url"`
	Director    string  `db:"director" json:"director"`
	Cast        string  `db:"actors" json:"cast"`
	Year        string  `db:"release_year" json:"year"`
	Country     string  `db:"country" json:"country"`
	Genre       string  `db:"genre" json:"genre"`
	Rating      float64 `db:"rating" json:"rating"`
	RatingCount int     `db:"rating_count" json:"rating_count"`
	CrawlID     int64   `db:"crawl_id" json:"crawl_id"`
}
