package metrics

// InitializeMetrics pre-populates expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, kind := range []string{"probe", "thumbnail", "preview"} {
		DerivationsTotal.WithLabelValues(kind, "success")
		DerivationsTotal.WithLabelValues(kind, "error")
		DerivationDuration.WithLabelValues(kind)
	}

	for _, op := range []string{
		"initialize_schema", "insert_folder", "insert_video", "video_exists",
		"update_artifacts", "increment_video_count", "get_video", "list_videos",
		"browse", "list_categories", "update_category", "update_rating",
	} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
