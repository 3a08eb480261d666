package plagiarism

// CachedSources reports how many distinct sources have a cached comparable text.
func (d *compileDisassembleDetector) CachedSources() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sourcesCache)
}

func (d *JavaDetector) WorkingDirectory() string {
	return d.workingDirectory
}
