// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/logger"
)

// CompileError carries the full diagnostics of a failed program build:
// both shader sources and all three info logs. Compilation and linking
// always run to completion before the error is assembled, so the report
// covers vertex, fragment and link problems at once.
type CompileError struct {
	Name        string
	VertexSrc   string
	FragmentSrc string
	VertexLog   string
	FragmentLog string
	ProgramLog  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %q failed to build: %s", e.Name, e.ProgramLog)
}

// Report formats the complete diagnostics for display or logging.
func (e *CompileError) Report() string {
	return fmt.Sprintf(
		"===== Vertex Shader =====\n%s\n"+
			"===== Vertex Shader Info Log =====\n%s\n"+
			"===== Fragment Shader =====\n%s\n"+
			"===== Fragment Shader Info Log =====\n%s\n"+
			"===== Program Info Log =====\n%s\n",
		e.VertexSrc, e.VertexLog, e.FragmentSrc, e.FragmentLog, e.ProgramLog)
}

// CompileProgram compiles and links a vertex/fragment shader pair.
// Returns the program id, or 0 and a *CompileError describing every
// stage that failed.
func CompileProgram(name, vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader := compileShader(vertexSrc, gl.VERTEX_SHADER)
	fragShader := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	defer gl.DeleteShader(vertShader)
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		err := &CompileError{
			Name:        name,
			VertexSrc:   vertexSrc,
			FragmentSrc: fragmentSrc,
			VertexLog:   shaderInfoLog(vertShader),
			FragmentLog: shaderInfoLog(fragShader),
			ProgramLog:  programInfoLog(program),
		}
		gl.DeleteProgram(program)
		return 0, err
	}

	return program, nil
}

// LoadProgram compiles a program and surfaces failures to the user: the
// full report is logged and shown in a message box, and 0 is returned
// so callers can skip the broken program instead of crashing.
func LoadProgram(name, vertexSrc, fragmentSrc string) uint32 {
	program, err := CompileProgram(name, vertexSrc, fragmentSrc)
	if err != nil {
		report := err.Error()
		if ce, ok := err.(*CompileError); ok {
			report = ce.Report()
		}
		logger.Error("shader build failed",
			zap.String("name", name),
			zap.String("report", report))
		dialog.Message("Shader %q failed to compile or link.\n\n%s", name, report).
			Title("Shader error").Error()
		return 0
	}
	logger.Debug("shader program built", zap.String("name", name), zap.Uint32("program", program))
	return program
}

// compileShader compiles one shader stage. Failures are not checked
// here; the caller inspects the link status and collects all info logs
// in one report.
func compileShader(source string, shaderType uint32) uint32 {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)
	return shader
}

func shaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen)
	gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
	return string(log)
}

func programInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen)
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return string(log)
}
