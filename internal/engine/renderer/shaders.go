package renderer

// Per-instance transforms arrive as four vec3 attributes: three scaled
// rotation columns and a translation.
const instancedVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 iBasisX;
layout (location = 3) in vec3 iBasisY;
layout (location = 4) in vec3 iBasisZ;
layout (location = 5) in vec3 iTranslation;

uniform mat4 uViewProj;

out vec3 vNormal;
out float vHeight;

void main() {
	mat3 basis = mat3(iBasisX, iBasisY, iBasisZ);
	vec3 world = basis * aPos + iTranslation;
	vNormal = normalize(basis * aNormal);
	vHeight = world.y;
	gl_Position = uViewProj * vec4(world, 1.0);
}
`

const instancedFragmentShader = `
#version 410 core

in vec3 vNormal;
in float vHeight;

uniform vec3 uBaseColor;
uniform vec3 uTipColor;
uniform vec3 uLightDir;
uniform float uHeightRange;

out vec4 FragColor;

void main() {
	float t = clamp(vHeight / uHeightRange * 0.5 + 0.5, 0.0, 1.0);
	vec3 color = mix(uBaseColor, uTipColor, t);
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	FragColor = vec4(color * (0.25 + 0.75 * diffuse), 1.0);
}
`
