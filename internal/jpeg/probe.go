package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} probe_err_mgr;

static void probe_error_exit(j_common_ptr cinfo) {
    probe_err_mgr *e = (probe_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

// probe_marker holds extracted APP2 marker data
typedef struct {
    unsigned char *data;
    unsigned int  len;
} probe_marker;

typedef struct {
    int width;
    int height;
    int num_components;
    int color_space;    // J_COLOR_SPACE enum value
    int saw_adobe;      // APP14 Adobe marker present
    int has_error;
    char error_msg[256];
} probe_result;

// probe_jpeg reads the JPEG header only; no scanlines are decompressed.
static probe_result probe_jpeg(const unsigned char *buf, unsigned long buf_size,
                               probe_marker *markers, int max_markers, int *marker_count) {
    probe_result res;
    memset(&res, 0, sizeof(res));
    *marker_count = 0;

    struct jpeg_decompress_struct cinfo;
    probe_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = probe_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_save_markers(&cinfo, JPEG_APP0+2, 0xFFFF); // APP2 for ICC
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    res.width = cinfo.image_width;
    res.height = cinfo.image_height;
    res.num_components = cinfo.num_components;
    res.color_space = cinfo.jpeg_color_space;
    res.saw_adobe = cinfo.saw_Adobe_marker;

    // extract APP2 markers
    jpeg_saved_marker_ptr m = cinfo.marker_list;
    int count = 0;
    while (m != NULL && count < max_markers) {
        if (m->marker == (JPEG_APP0+2) && m->data_length > 0) {
            markers[count].data = (unsigned char *)malloc(m->data_length);
            if (markers[count].data != NULL) {
                memcpy(markers[count].data, m->data, m->data_length);
                markers[count].len = m->data_length;
                count++;
            }
        }
        m = m->next;
    }
    *marker_count = count;

    jpeg_destroy_decompress(&cinfo);
    return res;
}

static void free_probe_markers(probe_marker *markers, int count) {
    for (int i = 0; i < count; i++) {
        free(markers[i].data);
    }
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// ColorSpace is libjpeg's declared color space for the compressed data.
type ColorSpace int

// Values match libjpeg's J_COLOR_SPACE.
const (
	ColorSpaceUnknown   ColorSpace = 0
	ColorSpaceGrayscale ColorSpace = 1
	ColorSpaceRGB       ColorSpace = 2
	ColorSpaceYCbCr     ColorSpace = 3
	ColorSpaceCMYK      ColorSpace = 4
	ColorSpaceYCCK      ColorSpace = 5
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceUnknown:
		return "Unknown"
	case ColorSpaceGrayscale:
		return "Grayscale"
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceYCbCr:
		return "YCbCr"
	case ColorSpaceCMYK:
		return "CMYK"
	case ColorSpaceYCCK:
		return "YCCK"
	default:
		return fmt.Sprintf("J_COLOR_SPACE(%d)", int(cs))
	}
}

// IsCMYK reports whether the color space carries CMYK ink data.
// YCCK is the Adobe chroma-subsampled encoding of CMYK and decodes
// back to the same four channels.
func (cs ColorSpace) IsCMYK() bool {
	return cs == ColorSpaceCMYK || cs == ColorSpaceYCCK
}

// Info contains metadata about a JPEG file.
type Info struct {
	Width         int
	Height        int
	NumComponents int
	ColorSpace    ColorSpace
	Adobe         bool   // APP14 Adobe marker present
	ICC           []byte // extracted ICC profile, nil if absent
	ICCErr        error  // non-nil when ICC markers are present but malformed
}

// Probe reads JPEG metadata and extracts any ICC profile without decoding
// pixel data. A malformed APP2 ICC chunk set does not fail the probe: the
// header metadata is still valid, so Info is returned with ICC nil and
// ICCErr describing the damage.
func Probe(data []byte) (*Info, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("data too short for JPEG")
	}

	const maxMarkers = 256
	var cMarkers [maxMarkers]C.probe_marker
	var markerCount C.int

	res := C.probe_jpeg(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
		&cMarkers[0],
		C.int(maxMarkers),
		&markerCount,
	)

	defer C.free_probe_markers(&cMarkers[0], markerCount)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg: %s", C.GoString(&res.error_msg[0]))
	}

	// Collect APP2 marker data into Go slices
	var app2Markers [][]byte
	for i := 0; i < int(markerCount); i++ {
		m := cMarkers[i]
		goData := C.GoBytes(unsafe.Pointer(m.data), C.int(m.len))
		app2Markers = append(app2Markers, goData)
	}

	icc, iccErr := ExtractICC(app2Markers)
	if iccErr != nil {
		iccErr = fmt.Errorf("extracting ICC: %w", iccErr)
		icc = nil
	}

	return &Info{
		Width:         int(res.width),
		Height:        int(res.height),
		NumComponents: int(res.num_components),
		ColorSpace:    ColorSpace(res.color_space),
		Adobe:         res.saw_adobe != 0,
		ICC:           icc,
		ICCErr:        iccErr,
	}, nil
}
