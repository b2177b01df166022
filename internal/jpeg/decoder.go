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
} decode_err_mgr;

static void decode_error_exit(j_common_ptr cinfo) {
    decode_err_mgr *e = (decode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    int            width;
    int            height;
    int            num_components;
    int            saw_adobe;
    unsigned char *pixels;       // CMYK output
    unsigned long  pixels_size;
    int            has_error;
    char           error_msg[256];
} decode_result;

// decode_cmyk_jpeg decompresses a CMYK or YCCK JPEG to interleaved CMYK
// bytes. libjpeg folds YCCK back to CMYK when out_color_space is JCS_CMYK.
static decode_result decode_cmyk_jpeg(const unsigned char *buf, unsigned long buf_size) {
    decode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_decompress_struct cinfo;
    decode_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = decode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        free(res.pixels);
        res.pixels = NULL;
        res.pixels_size = 0;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    if (cinfo.jpeg_color_space != JCS_CMYK && cinfo.jpeg_color_space != JCS_YCCK) {
        strncpy(res.error_msg, "not a CMYK JPEG", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    cinfo.out_color_space = JCS_CMYK;

    jpeg_start_decompress(&cinfo);

    res.width = cinfo.output_width;
    res.height = cinfo.output_height;
    res.num_components = cinfo.output_components; // 4 for CMYK
    res.saw_adobe = cinfo.saw_Adobe_marker;

    res.pixels_size = (unsigned long)res.width * res.height * res.num_components;
    res.pixels = (unsigned char *)malloc(res.pixels_size);
    if (res.pixels == NULL) {
        strncpy(res.error_msg, "malloc failed for pixel buffer", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    int row_stride = res.width * res.num_components;
    while (cinfo.output_scanline < cinfo.output_height) {
        unsigned char *row = res.pixels + cinfo.output_scanline * row_stride;
        jpeg_read_scanlines(&cinfo, &row, 1);
    }

    jpeg_finish_decompress(&cinfo);
    jpeg_destroy_decompress(&cinfo);
    return res;
}

static void free_decode_pixels(unsigned char *p) {
    free(p);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// DecodedCMYK holds the result of decoding a CMYK JPEG. Pixels are
// interleaved C,M,Y,K bytes (4 bytes per pixel, row-major), with 0
// meaning no ink.
type DecodedCMYK struct {
	Width  int
	Height int
	Pixels []byte // len = Width * Height * 4
}

// DecodeCMYK decodes a CMYK (or YCCK) JPEG from memory into interleaved
// CMYK pixels. Adobe writes CMYK samples inverted (0 = full ink); those
// are flipped back so that 0 always means no ink, the convention lcms2's
// TYPE_CMYK_8 expects.
func DecodeCMYK(data []byte) (*DecodedCMYK, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("data too short for JPEG")
	}

	res := C.decode_cmyk_jpeg(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
	)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg decode: %s", C.GoString(&res.error_msg[0]))
	}

	defer C.free_decode_pixels(res.pixels)

	if int(res.num_components) != 4 {
		return nil, fmt.Errorf("expected 4 output components, got %d", int(res.num_components))
	}

	// Copy pixel data to Go-managed memory
	pixelSize := int(res.pixels_size)
	pixels := make([]byte, pixelSize)
	copy(pixels, unsafe.Slice((*byte)(unsafe.Pointer(res.pixels)), pixelSize))

	if res.saw_adobe != 0 {
		for i := range pixels {
			pixels[i] = 255 - pixels[i]
		}
	}

	return &DecodedCMYK{
		Width:  int(res.width),
		Height: int(res.height),
		Pixels: pixels,
	}, nil
}
