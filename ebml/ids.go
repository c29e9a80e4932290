package ebml

// Element IDs for the WebM subset of Matroska. The values are the raw
// on-wire bytes including the leading length-marker bit, so they are
// written verbatim with WriteID.
const (
	// EBML document header.
	IDEBML               uint64 = 0x1A45DFA3
	IDEBMLVersion        uint64 = 0x4286
	IDEBMLReadVersion    uint64 = 0x42F7
	IDEBMLMaxIDLength    uint64 = 0x42F2
	IDEBMLMaxSizeLength  uint64 = 0x42F3
	IDDocType            uint64 = 0x4282
	IDDocTypeVersion     uint64 = 0x4287
	IDDocTypeReadVersion uint64 = 0x4285

	// Segment and SeekHead.
	IDSegment      uint64 = 0x18538067
	IDSeekHead     uint64 = 0x114D9B74
	IDSeek         uint64 = 0x4DBB
	IDSeekID       uint64 = 0x53AB
	IDSeekPosition uint64 = 0x53AC

	// Segment info.
	IDInfo          uint64 = 0x1549A966
	IDTimecodeScale uint64 = 0x2AD7B1
	IDDuration      uint64 = 0x4489
	IDMuxingApp     uint64 = 0x4D80
	IDWritingApp    uint64 = 0x5741

	// Tracks.
	IDTracks       uint64 = 0x1654AE6B
	IDTrackEntry   uint64 = 0xAE
	IDTrackNumber  uint64 = 0xD7
	IDTrackUID     uint64 = 0x73C5
	IDTrackType    uint64 = 0x83
	IDCodecID      uint64 = 0x86
	IDCodecPrivate uint64 = 0x63A2
	IDLanguage     uint64 = 0x22B59C
	IDName         uint64 = 0x536E

	// Video settings.
	IDVideo         uint64 = 0xE0
	IDPixelWidth    uint64 = 0xB0
	IDPixelHeight   uint64 = 0xBA
	IDDisplayWidth  uint64 = 0x54B0
	IDDisplayHeight uint64 = 0x54BA
	IDStereoMode    uint64 = 0x53B8
	IDFrameRate     uint64 = 0x2383E3

	// Audio settings.
	IDAudio             uint64 = 0xE1
	IDSamplingFrequency uint64 = 0xB5
	IDChannels          uint64 = 0x9F
	IDBitDepth          uint64 = 0x6264

	// Clusters.
	IDCluster     uint64 = 0x1F43B675
	IDTimecode    uint64 = 0xE7
	IDSimpleBlock uint64 = 0xA3

	// Cues.
	IDCues               uint64 = 0x1C53BB6B
	IDCuePoint           uint64 = 0xBB
	IDCueTime            uint64 = 0xB3
	IDCueTrackPositions  uint64 = 0xB7
	IDCueTrack           uint64 = 0xF7
	IDCueClusterPosition uint64 = 0xF1
	IDCueBlockNumber     uint64 = 0x5378

	IDVoid uint64 = 0xEC
)

// UnknownSize is the 8-byte "size unknown" vint payload (all value bits
// set). Matroska accepts it on Segment and Cluster; a reader stops at the
// next top-level ID.
const UnknownSize uint64 = 0x01FFFFFFFFFFFFFF
