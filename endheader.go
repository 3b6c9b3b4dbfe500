package rarchive

// EndHeader marks the logical end of a modern-format archive's header
// stream.
type EndHeader struct {
	General  GeneralHeader
	EndFlags EndFlags
}

// parseEndHeader reads an EndHeader's body, assuming its GeneralHeader has
// already been parsed.
func parseEndHeader(r *BufferedReader, gh *GeneralHeader) (*EndHeader, error) {
	flagsVal, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	flags := EndFlags(flagsVal)
	if err := flags.validate(); err != nil {
		return nil, err
	}
	return &EndHeader{General: *gh, EndFlags: flags}, nil
}
