package webm

import "github.com/zsiec/webmmux/ebml"

// WriteEBMLHeader emits the EBML document header that declares the
// stream a WebM doctype version 2 document.
func WriteEBMLHeader(w ebml.Writer) error {
	payload := ebml.UintElementSize(ebml.IDEBMLVersion, 1)
	payload += ebml.UintElementSize(ebml.IDEBMLReadVersion, 1)
	payload += ebml.UintElementSize(ebml.IDEBMLMaxIDLength, 4)
	payload += ebml.UintElementSize(ebml.IDEBMLMaxSizeLength, 8)
	payload += ebml.StringElementSize(ebml.IDDocType, "webm")
	payload += ebml.UintElementSize(ebml.IDDocTypeVersion, 2)
	payload += ebml.UintElementSize(ebml.IDDocTypeReadVersion, 2)

	if err := ebml.WriteMaster(w, ebml.IDEBML, payload); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDEBMLVersion, 1); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDEBMLReadVersion, 1); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDEBMLMaxIDLength, 4); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDEBMLMaxSizeLength, 8); err != nil {
		return err
	}
	if err := ebml.WriteString(w, ebml.IDDocType, "webm"); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDDocTypeVersion, 2); err != nil {
		return err
	}
	return ebml.WriteUint(w, ebml.IDDocTypeReadVersion, 2)
}
