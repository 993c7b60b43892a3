package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translatorOnce sync.Once
	translator     *gst.ShaderTranslator
	translatorErr  error
)

// GetTranslator returns the process-wide ANGLE translator, starting it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
		if translatorErr != nil {
			translatorErr = fmt.Errorf("failed to start shader translator: %w", translatorErr)
		}
	})
	return translator, translatorErr
}

// WebGL2 translates WebGL2 sources into the dialect of a desktop context.
type WebGL2 struct {
	GLES bool
}

var _ shader.Translator = WebGL2{}

func (w WebGL2) Translate(source string, stage graphics.Stage) (*shader.Translation, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	if w.GLES {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := t.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &shader.Translation{Code: out.Code, Names: names}, nil
}
